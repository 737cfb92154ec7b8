package controllers

import (
	"net/http"

	"labtrack/cache"
	"labtrack/db"
	"labtrack/models"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	Repo    *db.Repo
	Reports *cache.ReportCache
}

func NewStudentController(repo *db.Repo, reports *cache.ReportCache) *StudentController {
	return &StudentController{Repo: repo, Reports: reports}
}

// GET /api/students?q=
func (sc *StudentController) List(c *gin.Context) {
	students, err := sc.Repo.ListStudents(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// POST /api/students
func (sc *StudentController) Create(c *gin.Context) {
	var in struct {
		Name      string  `json:"name" binding:"required"`
		StudentID string  `json:"studentId" binding:"required"`
		Phone     *string `json:"phone"`
		Email     *string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := &models.Student{Name: in.Name, StudentID: in.StudentID, Phone: in.Phone, Email: in.Email}
	if err := sc.Repo.CreateStudent(c.Request.Context(), s); err != nil {
		abortWithError(c, err)
		return
	}
	sc.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, s)
}

// DELETE /api/students/:id
func (sc *StudentController) Delete(c *gin.Context) {
	if err := sc.Repo.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	sc.Reports.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/students/:id/loans — the returns view: what the student still
// has out, per active transaction.
func (sc *StudentController) Loans(c *gin.Context) {
	id := c.Param("id")
	if _, err := sc.Repo.FindStudentByID(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	loans, err := sc.Repo.ActiveLoans(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans})
}
