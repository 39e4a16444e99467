package user

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	appfs "github.com/dannygardner26/GVCS-Main-Page-sub000/fs"
)

const commonPasswordsFile = "assets/common-passwords.txt.gz"

const (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	usernameOrEmailTag  = "username_or_email"
	usernameOrEmailText = "one of username or email is required"

	pwdMinLen = 8
	pwdMaxSim = .7
)

var (
	specialRegex    = regexp.MustCompile("[^A-Za-z0-9]")
	commonPasswords = make([]string, 0, 19727) // lines in common-passwords.txt.gz
	loadPwdsOnce    sync.Once
)

// passwordRule fails when ok returns false. attrs are the user's name, username & email parts.
type passwordRule struct {
	tag  string
	text string
	ok   func(pwd string, attrs []string) bool
}

// passwordPolicy is checked in order; only the first failure is reported.
var passwordPolicy = []passwordRule{
	{"pwdminlen", fmt.Sprintf("password must contain at least %d characters", pwdMinLen), func(pwd string, _ []string) bool {
		return len(pwd) >= pwdMinLen
	}},
	{"pwdnospace", "password must not contain whitespace", func(pwd string, _ []string) bool {
		return strings.IndexFunc(pwd, unicode.IsSpace) < 0
	}},
	{"pwdnotallnum", "password cannot be entirely numeric", func(pwd string, _ []string) bool {
		return strings.IndexFunc(pwd, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0
	}},
	{"pwdcplx", "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character", func(pwd string, _ []string) bool {
		return strings.IndexFunc(pwd, unicode.IsUpper) >= 0 &&
			strings.IndexFunc(pwd, unicode.IsLower) >= 0 &&
			strings.IndexFunc(pwd, unicode.IsDigit) >= 0 &&
			specialRegex.MatchString(pwd)
	}},
	{"pwdtoosim", "password cannot be similar to user attributes", func(pwd string, attrs []string) bool {
		for _, attr := range attrs {
			if attr != "" && difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(attr, "")).QuickRatio() >= pwdMaxSim {
				return false
			}
		}
		return true
	}},
	{"pwdnocommon", "password is too common", func(pwd string, _ []string) bool {
		return !core.StringSliceContains(commonPasswords, strings.ToLower(pwd))
	}},
}

// InitValidators registers the user validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(validate, translator, allRolesTag, allRolesText)

	validate.RegisterStructValidation(userStructValidation, NewUser{}, UpdateUser{}, ResetUserPassword{}, Signup{})
	core.RegisterCustomTranslation(validate, translator, usernameOrEmailTag, usernameOrEmailText)
	for _, rule := range passwordPolicy {
		core.RegisterCustomTranslation(validate, translator, rule.tag, rule.text)
	}
}

// LoadCommonPasswords reads the embedded list of common passwords. Later calls are no-ops.
func LoadCommonPasswords(logger core.Logger) {
	loadPwdsOnce.Do(func() { loadCommonPasswords(logger) })
}

func loadCommonPasswords(logger core.Logger) {
	file, err := appfs.FS.Open(commonPasswordsFile)
	if err != nil {
		logger.Error("opening common passwords", err)
		return
	}
	defer file.Close()

	gzRdr, err := gzip.NewReader(file)
	if err != nil {
		logger.Error("reading common passwords", err)
		return
	}
	scanner := bufio.NewScanner(gzRdr)
	for scanner.Scan() {
		commonPasswords = append(commonPasswords, strings.ToLower(strings.TrimSpace(scanner.Text())))
	}
	if err := scanner.Err(); err != nil {
		logger.Error("scanning common passwords", err)
	}
	sort.Strings(commonPasswords)
}

// Custom Validators

// allRolesValidation checks that every provided role is a known one
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if RolePriority(role) == 0 {
			return false
		}
	}
	return true
}

// userStructValidation applies the password policy to every struct carrying a new password.
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		validateUsernameAndEmail(usr, sl)
		validatePassword(usr.Password, usr.Name, usr.Username, usr.Email, sl)
	case UpdateUser:
		if usr.Password != "" {
			validatePassword(usr.Password, usr.Name, usr.Username, usr.Email, sl)
		}
	case ResetUserPassword:
		if usr.Password != "" {
			validatePassword(usr.Password, "", "", "", sl)
		}
	case Signup:
		if usr.Password != "" {
			validatePassword(usr.Password, usr.Name, "", usr.Email, sl)
		}
	}
}

// validateUsernameAndEmail checks that one of Username or Email is provided
func validateUsernameAndEmail(nu NewUser, sl validator.StructLevel) {
	if len(nu.Username) == 0 && len(nu.Email) == 0 {
		sl.ReportError(nu.Username, "username", "Username", usernameOrEmailTag, "")
		sl.ReportError(nu.Email, "email", "Email", usernameOrEmailTag, "")
	}
}

// validatePassword reports the first passwordPolicy rule pwd breaks.
// School emails carry the student's name in the local part, so both halves are compared.
func validatePassword(pwd, name, uname, email string, sl validator.StructLevel) {
	attrs := []string{name, uname, email}
	if local, _, ok := strings.Cut(email, "@"); ok {
		attrs = append(attrs, local)
	}
	for _, rule := range passwordPolicy {
		if !rule.ok(pwd, attrs) {
			sl.ReportError(pwd, "password", "Password", rule.tag, "")
			return
		}
	}
}
