package user

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

// Roles
const (
	// Admin (club leadership)
	RoleAdmin          = "admin:"
	RoleAdminOwner     = "admin:owner"
	RoleAdminPrincipal = "admin:principal"

	// Teacher
	RoleTeacher = "teacher:"

	// Student
	RoleStudent = "student:"
)

// Role is a role as listed to club admins.
type Role struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	priority int
}

// Roles lists every role, from least to most privileged. Admins outrank teachers, who outrank students.
var Roles = []Role{
	{Name: "Student", Value: RoleStudent, priority: 1},
	{Name: "Teacher", Value: RoleTeacher, priority: 11},
	{Name: "Club Officer", Value: RoleAdmin, priority: 21},
	{Name: "Club Principal", Value: RoleAdminPrincipal, priority: 29},
	{Name: "Club Owner", Value: RoleAdminOwner, priority: 30},
}

// AllRoles holds every role value, in Roles order.
var AllRoles = func() []string {
	all := make([]string, len(Roles))
	for i, r := range Roles {
		all[i] = r.Value
	}
	return all
}()

// RolePriority is 0 for unknown roles.
func RolePriority(role string) int {
	for _, r := range Roles {
		if r.Value == role {
			return r.priority
		}
	}
	return 0
}

// MaxRolePriority is the priority of the most privileged of roles.
func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if p := RolePriority(role); p > max {
			max = p
		}
	}
	return max
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsActive     *bool     `json:"is_active"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) SetActive(active bool) {
	u.IsActive = &active
}

func (u *User) Active() bool {
	return u.IsActive != nil && *u.IsActive
}

func (u *User) RoleStartsWith(prefix string) bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.RoleStartsWith(RoleAdmin)
}

func (u *User) IsTeacher() bool {
	return u.RoleStartsWith(RoleTeacher)
}

func (u *User) IsStudent() bool {
	return u.RoleStartsWith(RoleStudent)
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=3,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string   `json:"name"`
	Username        string   `json:"username" validate:"omitempty,min=3,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	IsActive        *bool    `json:"is_active"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
	Password        string   `json:"password" validate:"omitempty"`
	PasswordConfirm string   `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, validate *validator.Validate, svc ServiceInterface) error {
	uu.Name = cleanOr(uu.Name, origUsr.Name, false)
	uu.Username = cleanOr(uu.Username, origUsr.Username, true)
	uu.Email = cleanOr(uu.Email, origUsr.Email, true)

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uu.Username, uu.Email, origUsr)
}

// cleanOr returns the cleaned s, or orig when nothing is left of it.
func cleanOr(s, orig string, lower bool) string {
	if s = core.CleanString(s, lower); s != "" {
		return s
	}
	return orig
}

// Signup is a student registering on their own. The account is active right away.
type Signup struct {
	Name            string `json:"name" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	GradeLevel      *int   `json:"grade_level" validate:"omitempty,min=9,max=12"`
}

func (su *Signup) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	su.Name = core.CleanString(su.Name)
	su.Email = core.CleanString(su.Email, true /* lower */)

	if err := validate.Struct(su); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, "", su.Email)
}

// EmailDomain returns the part after "@", lowercased.
func EmailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error { return validate.Struct(rp) }

type QueryFilter struct {
	Search      string    `query:"search"`
	Roles       []string  `query:"role"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// GetFilter finds a single user. The first non-empty field wins; UsernameOrEmail is
// [username] or [username, email].
type GetFilter struct {
	ID              string
	Username        string
	Email           string
	UsernameOrEmail []string
}

// Profile holds the student details shown on the dashboard.
type Profile struct {
	UserID         string    `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	GradeLevel     null.Int  `json:"grade_level"`
	GraduationYear null.Int  `json:"graduation_year"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UpdateProfile struct {
	DisplayName    string `json:"display_name" validate:"omitempty,max=80"`
	GradeLevel     *int   `json:"grade_level" validate:"omitempty,min=9,max=12"`
	GraduationYear *int   `json:"graduation_year" validate:"omitempty,min=2000,max=2100"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.DisplayName = core.CleanString(up.DisplayName)
	return validate.Struct(up)
}
