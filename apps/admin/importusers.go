package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

// importConfig locates the roster columns. Columns are spreadsheet letters.
type importConfig struct {
	FilePath       string
	NameColumn     string
	UsernameColumn string
	EmailColumn    string
	RoleColumn     string
	SheetName      string
	StartRow       int // 1-based
	DefaultRole    string
}

func defaultImportConfig() importConfig {
	return importConfig{
		NameColumn:     "A",
		UsernameColumn: "B",
		EmailColumn:    "C",
		RoleColumn:     "D",
		SheetName:      "Sheet1",
		StartRow:       2, // skip header
		DefaultRole:    user.RoleStudent,
	}
}

type importResult struct {
	Processed int
	Created   int
	Skipped   int
	Errors    []string
}

// importUsers creates an active account for every new row of the roster. Rows whose username or
// email is taken are skipped. Imported users get a random password and sign in after a password
// reset.
func (cli *commandLine) importUsers(ctx context.Context, conf importConfig) (*importResult, error) {
	if user.RolePriority(conf.DefaultRole) == 0 {
		return nil, errors.Errorf("unknown role %q", conf.DefaultRole)
	}

	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(filepath.Ext(conf.FilePath)) == ".csv" {
		rows, err = readCSVRows(conf.FilePath)
	} else {
		rows, err = readExcelRows(conf.FilePath, conf.SheetName)
	}
	if err != nil {
		return nil, err
	}

	res := &importResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < conf.StartRow-1 || isBlankRow(row) {
			continue
		}
		res.Processed++
		created, err := cli.importRow(ctx, conf, row)
		switch {
		case err != nil:
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		case created:
			res.Created++
		default:
			res.Skipped++
		}
	}
	return res, nil
}

func readExcelRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening spreadsheet")
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening csv file")
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv file")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if i := columnToIndex(column); i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func (cli *commandLine) importRow(ctx context.Context, conf importConfig, row []string) (bool, error) {
	name := core.CleanString(cell(row, conf.NameColumn))
	uname := core.CleanString(cell(row, conf.UsernameColumn), true /* lower */)
	email := core.CleanString(cell(row, conf.EmailColumn), true /* lower */)
	role := core.CleanString(cell(row, conf.RoleColumn), true /* lower */)

	if name == "" {
		return false, errors.New("name cannot be empty")
	}
	if uname == "" && email == "" {
		return false, errors.New("username or email is required")
	}
	if role == "" {
		role = conf.DefaultRole
	} else if !strings.HasSuffix(role, ":") && user.RolePriority(role+":") > 0 {
		role += ":" // "student" -> "student:"
	}
	if user.RolePriority(role) == 0 {
		return false, errors.Errorf("unknown role %q", role)
	}

	_, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: []string{uname, email}})
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return false, err
	}

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     []string{role},
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetActive(true)
	if err := usr.SetPassword(uuid.NewString()); err != nil {
		return false, err
	}
	if _, err := cli.usrRepo.CreateUser(ctx, usr); err != nil {
		return false, errors.Wrap(err, "creating user")
	}
	return true, nil
}

// columnToIndex converts a column letter to a 0-based index: "A" -> 0, "AA" -> 26.
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
