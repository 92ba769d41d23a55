// Package console is the text-menu front end: options 1–6 read from an
// input stream, results written to an output stream.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records/internal/records"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Store is the part of records.Store the menu needs.
type Store interface {
	Create(ctx context.Context, student types.Student) (types.Student, error)
	List(ctx context.Context, order types.Order) ([]types.Student, error)
	Get(ctx context.Context, rollNo string) (types.Student, error)
	Search(ctx context.Context, keyword string) ([]types.Student, error)
	Update(ctx context.Context, rollNo string, fields types.StudentUpdate) (types.Student, error)
	Delete(ctx context.Context, rollNo string) error
}

const menu = `
===== Student Management System =====
1. Add Student
2. View Students
3. Search Student
4. Update Student
5. Delete Student
6. Exit
`

const (
	msgAdded        = "Student Added Successfully!"
	msgUpdated      = "Student Updated Successfully!"
	msgDeleted      = "Student Deleted Successfully!"
	msgDuplicate    = "Roll No already exists! Try a different one."
	msgNotFound     = "Student not found!"
	msgNoStudents   = "No students found."
	msgBadSemester  = "Semester must be between 1 to 6!"
	msgBadChoice    = "Invalid choice! Try again."
	msgCancelled    = "Delete cancelled."
	msgBye          = "Bye!"
	msgUnexpected   = "Something went wrong, please try again."
	headerList      = "\n--- Student List ---"
	headerFound     = "Student(s) Found:"
	promptChoice    = "Enter your choice: "
	promptKeepBlank = " (blank keeps current)"
)

// errQuit is returned by an action when input ran out mid-prompt.
var errQuit = errors.New("quit")

// Console runs the menu loop against a Store.
type Console struct {
	store Store
	in    *bufio.Scanner
	out   io.Writer
	log   *slog.Logger
}

// New returns a Console that reads menu choices from in and writes prompts
// and results to out.
func New(store Store, in io.Reader, out io.Writer, log *slog.Logger) *Console {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Console{
		store: store,
		in:    bufio.NewScanner(in),
		out:   out,
		log:   log,
	}
}

// Run shows the menu until the user picks Exit, input ends, or ctx is
// cancelled. Store errors are printed and never end the loop.
func (c *Console) Run(ctx context.Context) error {
	actions := map[string]func(context.Context) error{
		"1": c.add,
		"2": c.view,
		"3": c.search,
		"4": c.update,
		"5": c.delete,
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, menu)
		choice, ok := c.prompt(promptChoice)
		if !ok {
			return c.in.Err()
		}

		if choice == "6" {
			c.println(msgBye)
			return nil
		}

		action, found := actions[choice]
		if !found {
			c.println(msgBadChoice)
			continue
		}

		if err := action(ctx); err != nil {
			if errors.Is(err, errQuit) {
				return c.in.Err()
			}
			return err
		}
	}
}

func (c *Console) add(ctx context.Context) error {
	rollNo, ok := c.prompt("Enter Roll No: ")
	if !ok {
		return errQuit
	}
	name, ok := c.prompt("Enter Name: ")
	if !ok {
		return errQuit
	}
	course, ok := c.prompt("Enter Course: ")
	if !ok {
		return errQuit
	}
	semInput, ok := c.prompt("Enter Semester: ")
	if !ok {
		return errQuit
	}

	semester, err := strconv.Atoi(semInput)
	if err != nil {
		c.println(msgBadSemester)
		return nil
	}

	_, err = c.store.Create(ctx, types.Student{RollNo: rollNo, Name: name, Course: course, Semester: semester})
	switch {
	case err == nil:
		c.log.Info("student created", slog.String("roll_no", rollNo))
		c.println(msgAdded)
	case errors.Is(err, records.ErrDuplicateKey):
		c.println(msgDuplicate)
	default:
		c.report(err)
	}
	return nil
}

func (c *Console) view(ctx context.Context) error {
	students, err := c.store.List(ctx, types.OrderByName)
	if err != nil {
		c.report(err)
		return nil
	}

	c.println(headerList)
	if len(students) == 0 {
		c.println(msgNoStudents)
		return nil
	}
	for _, s := range students {
		c.println(formatStudent(s))
	}
	return nil
}

func (c *Console) search(ctx context.Context) error {
	keyword, ok := c.prompt("Enter Roll No or Name to Search: ")
	if !ok {
		return errQuit
	}

	students, err := c.store.Search(ctx, keyword)
	if err != nil {
		c.report(err)
		return nil
	}
	if len(students) == 0 {
		c.println(msgNotFound)
		return nil
	}

	c.println(headerFound)
	for _, s := range students {
		c.println(formatStudent(s))
	}
	return nil
}

func (c *Console) update(ctx context.Context) error {
	rollNo, ok := c.prompt("Enter Roll No to Update: ")
	if !ok {
		return errQuit
	}

	current, err := c.store.Get(ctx, rollNo)
	if err != nil {
		c.report(err)
		return nil
	}

	var fields types.StudentUpdate

	name, ok := c.prompt(fmt.Sprintf("Enter New Name [%s]%s: ", current.Name, promptKeepBlank))
	if !ok {
		return errQuit
	}
	if name != "" {
		fields.Name = &name
	}

	course, ok := c.prompt(fmt.Sprintf("Enter New Course [%s]%s: ", current.Course, promptKeepBlank))
	if !ok {
		return errQuit
	}
	if course != "" {
		fields.Course = &course
	}

	semInput, ok := c.prompt(fmt.Sprintf("Enter New Semester [%d]%s: ", current.Semester, promptKeepBlank))
	if !ok {
		return errQuit
	}
	if semInput != "" {
		semester, err := strconv.Atoi(semInput)
		if err != nil {
			c.println(msgBadSemester)
			return nil
		}
		fields.Semester = &semester
	}

	if _, err := c.store.Update(ctx, current.RollNo, fields); err != nil {
		c.report(err)
		return nil
	}

	c.log.Info("student updated", slog.String("roll_no", current.RollNo))
	c.println(msgUpdated)
	return nil
}

func (c *Console) delete(ctx context.Context) error {
	rollNo, ok := c.prompt("Enter Roll No to Delete: ")
	if !ok {
		return errQuit
	}

	current, err := c.store.Get(ctx, rollNo)
	if err != nil {
		c.report(err)
		return nil
	}

	confirm, ok := c.prompt(fmt.Sprintf("Delete %s (%s)? Are you sure? (y/n): ", current.RollNo, current.Name))
	if !ok {
		return errQuit
	}
	if !strings.EqualFold(confirm, "y") && !strings.EqualFold(confirm, "yes") {
		c.println(msgCancelled)
		return nil
	}

	if err := c.store.Delete(ctx, current.RollNo); err != nil {
		c.report(err)
		return nil
	}

	c.log.Info("student deleted", slog.String("roll_no", current.RollNo))
	c.println(msgDeleted)
	return nil
}

// report prints the user-facing message for err. Unexpected errors are
// logged with their detail and shown generically.
func (c *Console) report(err error) {
	var verr *records.ValidationError
	switch {
	case errors.As(err, &verr):
		for _, p := range verr.Problems {
			c.println(p)
		}
	case errors.Is(err, records.ErrNotFound):
		c.println(msgNotFound)
	case errors.Is(err, records.ErrDuplicateKey):
		c.println(msgDuplicate)
	default:
		c.log.Error("store operation failed", slog.String("error", err.Error()))
		c.println(msgUnexpected)
	}
}

// prompt writes label and reads one trimmed line. ok is false at end of
// input.
func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func formatStudent(s types.Student) string {
	return fmt.Sprintf("%-10s  %-24s  %-16s  %d", s.RollNo, s.Name, s.Course, s.Semester)
}
