package hooks

import "github.com/dmitrijs2005/studyshare/internal/client/query"

// Keys shared by queries and the invalidation sets of mutations. Every
// document listing lives under KeyDocuments so one invalidation covers the
// feed, the per-faculty and per-subject lists and search results.
var (
	KeyMyProfile       = query.Key{"my-profile"}
	KeyDocuments       = query.Key{"documents"}
	KeyFaculties       = query.Key{"faculties"}
	KeySubjects        = query.Key{"subjects"}
	KeyNotifications   = query.Key{"notifications"}
	KeyAdminStatistics = query.Key{"admin-statistics"}
	KeyAdminUsers      = query.Key{"admin-users"}
	KeyAdminPending    = query.Key{"admin-pending-documents"}
)

func UserProfileKey(id string) query.Key {
	return query.Key{"user-profile", id}
}

func DocumentKey(id string) query.Key {
	return query.Key{"document", id}
}

func DownloadKey(id string) query.Key {
	return query.Key{"document-download", id}
}

func FacultyDocumentsKey(facultyID string) query.Key {
	return KeyDocuments.With("faculty", facultyID)
}

func SubjectDocumentsKey(subjectID string) query.Key {
	return KeyDocuments.With("subject", subjectID)
}

func SearchKey(keyword string) query.Key {
	return KeyDocuments.With("search", keyword)
}

func KeywordSuggestionsKey(keyword string) query.Key {
	return query.Key{"keyword-suggestions", keyword}
}

func SubjectSuggestionsKey(keyword string) query.Key {
	return query.Key{"subject-suggestions", keyword}
}

func FacultyInfoKey(id string) query.Key {
	return query.Key{"faculty-info", id}
}

// SubjectsKey is the subject list, optionally narrowed to one faculty.
func SubjectsKey(facultyID string) query.Key {
	return KeySubjects.With(facultyID)
}

func SubjectInfoKey(id string) query.Key {
	return query.Key{"subject-info", id}
}
