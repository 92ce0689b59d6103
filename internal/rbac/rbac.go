package rbac

type Role string
type Action string

const (
	RoleContributor Role = "contributor"
	RoleEditor      Role = "editor"
	RoleAdmin       Role = "admin"
)

const (
	ActionRead       Action = "read"
	ActionContribute Action = "contribute"
	ActionReview     Action = "review"
	ActionAdmin      Action = "admin"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleEditor:
		return action == ActionRead || action == ActionContribute || action == ActionReview
	case RoleContributor:
		return action == ActionRead || action == ActionContribute
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleContributor, RoleEditor, RoleAdmin:
		return Role(role)
	default:
		return RoleContributor
	}
}
