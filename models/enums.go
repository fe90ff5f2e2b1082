package models

// Department is the organizational group a user belongs to.
type Department string

// Category groups missions for the per-category rankings.
type Category string

const (
	DepartmentHope  Department = "소망부"
	DepartmentLove  Department = "사랑부"
	DepartmentFaith Department = "믿음부"
)

const (
	CategoryWord       Category = "말씀"
	CategoryPrayer     Category = "기도"
	CategoryFellowship Category = "교제"
	CategoryOutreach   Category = "전도"
)

// Departments lists every department in display order.
func Departments() []Department {
	return []Department{DepartmentHope, DepartmentLove, DepartmentFaith}
}

// Categories lists every mission category in display order.
func Categories() []Category {
	return []Category{CategoryWord, CategoryPrayer, CategoryFellowship, CategoryOutreach}
}

// Valid reports whether d is one of the known departments.
func (d Department) Valid() bool {
	for _, v := range Departments() {
		if v == d {
			return true
		}
	}
	return false
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if v == c {
			return true
		}
	}
	return false
}
