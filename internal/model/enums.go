package model

// Role identifies the kind of user.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// IsValid reports whether the role is one of the enumerated values.
func (r Role) IsValid() bool {
	switch r {
	case RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// ActivityStatus is the publication state of an activity.
type ActivityStatus string

const (
	StatusDraft     ActivityStatus = "draft"
	StatusPublished ActivityStatus = "published"
)

// IsValid reports whether the status is one of the enumerated values.
func (s ActivityStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished:
		return true
	default:
		return false
	}
}

// QuestionKind is the type of a question.
type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "multiple_choice"
	QuestionEssay          QuestionKind = "essay"
)

// IsValid reports whether the kind is one of the enumerated values.
func (k QuestionKind) IsValid() bool {
	switch k {
	case QuestionMultipleChoice, QuestionEssay:
		return true
	default:
		return false
	}
}

// MaterialKind is the type of a support material.
type MaterialKind string

const (
	MaterialText MaterialKind = "text"
	MaterialLink MaterialKind = "link"
	MaterialPDF  MaterialKind = "pdf"
)

// IsValid reports whether the kind is one of the enumerated values.
func (k MaterialKind) IsValid() bool {
	switch k {
	case MaterialText, MaterialLink, MaterialPDF:
		return true
	default:
		return false
	}
}
