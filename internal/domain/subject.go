package domain

type Subject struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Credits      int32  `json:"credits"`
	DepartmentID *int64 `json:"departmentID"`
}

// ClassGroup 表示一个行政班，同一个行政班的学生不能同时上两门课
type ClassGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
