package echoapi

import (
	"net/http"
	"net/mail"
	texttmpl "text/template"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zawadi/shule/core"
	"github.com/zawadi/shule/core/imports"
	"github.com/zawadi/shule/core/staff"
	"github.com/zawadi/shule/core/student"
)

var errStudentNotFoundInCtx = errors.New("student object not found in echo.Context")

type studentApi struct {
	svc      *student.Service
	staffSvc *staff.Service
	importer *imports.Importer
	emailSvc core.EmailService
	conf     *core.Config
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := studentApi{
		svc:      opts.StudentSvc,
		staffSvc: opts.StaffSvc,
		importer: imports.NewImporter(opts.StudentSvc),
		emailSvc: opts.EmailSvc,
		conf:     opts.AppConf,
	}

	sg := g.Group("/students", jwt)

	sg.GET("", api.query)
	sg.POST("", api.create, studentManagerMiddleware())
	sg.DELETE("", api.destroyMultiple, adminMiddleware())

	// bulk import
	sg.POST("/import", api.importFile, studentManagerMiddleware())
	sg.GET("/import/template", api.importTemplate)

	// detail endpoints
	dg := sg.Group("/:id", ctxStudentMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, studentManagerMiddleware())
	dg.DELETE("", api.destroy, studentManagerMiddleware())
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}

	students, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	std, err := api.svc.Update(ctx.Request().Context(), std.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), std.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// importFile runs an uploaded spreadsheet through the bulk import pipeline
// and reports the outcome, both in the response and by email to the uploader.
func (api *studentApi) importFile(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = src.Close() }()

	outcome, err := api.importer.Import(ctx.Request().Context(), src, fh.Filename)
	if err != nil {
		switch errors.Cause(err) {
		case imports.ErrNoData, imports.ErrUnsupportedFile:
			return core.NewValidationError(nil, core.FieldError{Field: "file", Error: err.Error()})
		}
		return errors.Wrap(err, "importing students")
	}

	if stf, cerr := getContextStaff(ctx, api.staffSvc); cerr == nil && stf.Email != "" {
		api.emailSvc.SendMessages(importReportEmail(stf, fh.Filename, outcome))
	}
	return ctx.JSON(http.StatusOK, outcome)
}

// importTemplate serves a ready-to-fill workbook with one example row.
func (api *studentApi) importTemplate(ctx echo.Context) error {
	f, err := imports.Template()
	if err != nil {
		return errors.Wrap(err, "generating import template")
	}
	defer func() { _ = f.Close() }()

	header := ctx.Response().Header()
	header.Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	header.Set(echo.HeaderContentDisposition, `attachment; filename="students_import_template.xlsx"`)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response())
}

func ctxStudentMiddleware(svc *student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			std, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == student.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding student by ID")
			}
			ctx.Set("object", std)
			return next(ctx)
		}
	}
}

var importReportTmpl = texttmpl.Must(texttmpl.New("importReport").Parse(`Hello {{.Name}},

Your student import "{{.Filename}}" has completed.

  Rows processed: {{.Outcome.TotalRows}}
  Skipped (missing admission no or first name): {{.Outcome.Skipped}}
  Submitted: {{.Outcome.Submitted}}
  Created: {{len .Outcome.Success}}
  Rejected: {{len .Outcome.Failed}}
{{- if .Outcome.Failed}}

Rejected rows:
{{- range .Outcome.Failed}}
  - row {{.Row}}{{if .AdmissionNo}} ({{.AdmissionNo}}){{end}}: {{.Error}}
{{- end}}
{{- end}}
`))

func importReportEmail(stf staff.Staff, filename string, outcome imports.Outcome) *core.EmailMessage {
	return &core.EmailMessage{
		To:       []mail.Address{{Name: stf.Name, Address: stf.Email}},
		Subject:  "Student import report",
		Template: importReportTmpl,
		TemplateData: struct {
			Name     string
			Filename string
			Outcome  imports.Outcome
		}{stf.Name, filename, outcome},
	}
}
