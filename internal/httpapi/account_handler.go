package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
	Slug     string  `json:"slug" binding:"required"`
	Password string  `json:"password" binding:"required,min=8"`
}

type updateAccountRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
}

func queryOnlyActive(c *gin.Context) bool {
	return c.DefaultQuery("only_active", "true") != "false"
}

// ===== Учителя =====

// RegisterTeacher POST /teachers
func (h *Handler) RegisterTeacher(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	teacher, err := h.teachers.Register(c.Request.Context(), service.RegisterTeacherInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Bio:      req.Bio,
		Slug:     req.Slug,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, teacher)
}

// ListTeachers GET /teachers
func (h *Handler) ListTeachers(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	res, err := h.teachers.List(c.Request.Context(), queryOnlyActive(c), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetTeacher GET /teachers/:id
func (h *Handler) GetTeacher(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	teacher, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

// GetTeacherBySlug GET /teachers/slug/:slug
func (h *Handler) GetTeacherBySlug(c *gin.Context) {
	teacher, err := h.teachers.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

// UpdateTeacher PUT /teachers/:id, только сам учитель
func (h *Handler) UpdateTeacher(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := requireSelf(c, model.RoleTeacher, id); err != nil {
		h.writeError(c, err)
		return
	}

	var req updateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	teacher, err := h.teachers.Update(c.Request.Context(), id, service.UpdateTeacherInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Bio:      req.Bio,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teacher)
}

// DeleteTeacher DELETE /teachers/:id
func (h *Handler) DeleteTeacher(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := requireSelf(c, model.RoleTeacher, id); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.teachers.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== Студенты =====

// RegisterStudent POST /students
func (h *Handler) RegisterStudent(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.students.Register(c.Request.Context(), service.RegisterStudentInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Slug:     req.Slug,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

// ListStudents GET /students
func (h *Handler) ListStudents(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	res, err := h.students.List(c.Request.Context(), queryOnlyActive(c), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetStudent GET /students/:id
func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// GetStudentBySlug GET /students/slug/:slug
func (h *Handler) GetStudentBySlug(c *gin.Context) {
	student, err := h.students.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// UpdateStudent PUT /students/:id, только сам студент
func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := requireSelf(c, model.RoleStudent, id); err != nil {
		h.writeError(c, err)
		return
	}

	var req updateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.students.Update(c.Request.Context(), id, service.UpdateStudentInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudent DELETE /students/:id
func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := requireSelf(c, model.RoleStudent, id); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
