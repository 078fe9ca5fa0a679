package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
)

var employeeRoles = []string{"admin", "cashier", "waiter", "chef"}

var errInvalidCredentials = errors.New("invalid credentials")

// UserController manages employee accounts and hands out tokens.
type UserController struct {
	DB       *gorm.DB
	Secret   []byte
	TokenTTL time.Duration
}

func NewUserController(db *gorm.DB, secret []byte, ttl time.Duration) *UserController {
	return &UserController{DB: db, Secret: secret, TokenTTL: ttl}
}

// Register -> an admin adds an employee to their own company
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	role := strings.ToLower(req.Role)
	if !lo.Contains(employeeRoles, role) {
		utils.RespondServiceError(c, utils.BadRequest{Err: errors.New("role must be one of admin, cashier, waiter, chef")})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	actor := actorFrom(c)
	now := time.Now().UTC()
	createdBy := uint(actor.EmployeeID)
	employee := models.Employee{
		CompanyID: uint(actor.CompanyID),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(req.Email),
		Password:  string(hashed),
		Role:      role,
		AuditFields: models.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
			Version:   1,
			CreatedBy: &createdBy,
			UpdatedBy: &createdBy,
		},
	}

	var taken int64
	if err := uc.DB.WithContext(c.Request.Context()).Model(&models.Employee{}).Where("email = ?", employee.Email).Count(&taken).Error; err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	if taken > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("email already registered"))
		return
	}
	if err := uc.DB.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New employee registered: %s (role=%s, company=%d)", employee.Email, employee.Role, employee.CompanyID)
	utils.RespondJSON(c, http.StatusCreated, "Employee registered", gin.H{
		"employee_id": employee.ID,
	})
}

// Login -> returns a JWT carrying employee, company and role
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	var employee models.Employee
	err := uc.DB.WithContext(c.Request.Context()).
		Where("email = ? AND deleted_at IS NULL", strings.ToLower(input.Email)).
		First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(uc.Secret, employee.ID, employee.CompanyID, employee.Role, uc.TokenTTL)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for employee: %s, role: %s", employee.Email, employee.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  employee.Role,
	})
}
