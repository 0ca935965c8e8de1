package domain

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Teacher struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	FullName     string `json:"fullName"`
	DepartmentID int64  `json:"departmentID"`
}
