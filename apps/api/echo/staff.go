package echoapi

import (
	"fmt"
	"net/http"
	"net/mail"
	"sort"
	texttmpl "text/template"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zawadi/shule/core"
	"github.com/zawadi/shule/core/staff"
)

var (
	errStaffNotFoundInCtx = errors.New("staff object not found in echo.Context")
	errNoPermsToSetRoles  = "not enough rights to set these roles"
)

type staffApi struct {
	svc      *staff.Service
	emailSvc core.EmailService
	conf     *core.Config
}

func registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := staffApi{
		svc:      opts.StaffSvc,
		emailSvc: opts.EmailSvc,
		conf:     opts.AppConf,
	}

	sg := g.Group("/staff")

	// un-authed endpoints
	sg.POST("/login", api.login)
	sg.POST("/password-reset", api.requestPasswordReset)
	sg.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/register", api.create, adminMiddleware())
	ag.GET("", api.query, adminMiddleware())
	ag.DELETE("", api.destroyMultiple, adminMiddleware())
	ag.GET("/roles", api.queryRoles, adminMiddleware())

	// detail endpoints
	dg := ag.Group("/:id", ctxStaffOrAdminMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, adminMiddleware())
}

// Handlers

func (api *staffApi) login(ctx echo.Context) error {
	var data staff.LoginStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginStaff")
	}

	claims, err := authenticate(ctx, data, api.svc, api.conf)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *staffApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc, api.conf)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *staffApi) create(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}

	// ctxStaff cannot set a role > their own max role
	ctxStf, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	if staff.MaxRolePriority(data.Roles) > staff.MaxRolePriority(ctxStf.Roles) {
		return core.NewValidationError(nil, core.FieldError{Field: "roles", Error: errNoPermsToSetRoles})
	}

	stf, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, stf)
}

func (api *staffApi) query(ctx echo.Context) error {
	filter := new(staff.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []staff.Staff{})
	}

	members, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying staff")
	}
	if members == nil {
		members = []staff.Staff{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *staffApi) retrieve(ctx echo.Context) error {
	stf, ok := ctx.Get("object").(staff.Staff)
	if !ok {
		return errors.Wrap(errStaffNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, stf)
}

func (api *staffApi) update(ctx echo.Context) error {
	stf, ok := ctx.Get("object").(staff.Staff)
	if !ok {
		return errors.Wrap(errStaffNotFoundInCtx, "retrieving object from context")
	}

	var data staff.UpdateStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStaff")
	}

	ctxStf, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	if !ctxStf.IsAdmin() {
		// `IsActive` and `Roles` can only be changed by admin
		// `Username` and `Email` can only be changed by admin for now
		if data.IsActive != nil || data.Roles != nil || data.Username != "" || data.Email != "" {
			return errHttpForbidden
		}
	}

	// ctxStaff cannot set a role > their own max role
	if staff.MaxRolePriority(data.Roles) > staff.MaxRolePriority(ctxStf.Roles) {
		return core.NewValidationError(nil, core.FieldError{Field: "roles", Error: errNoPermsToSetRoles})
	}

	stf, err = api.svc.Update(ctx.Request().Context(), stf.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stf)
}

// requestPasswordReset emails a reset link to the given address. It always
// reports success so account existence cannot be probed.
func (api *staffApi) requestPasswordReset(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	data.Email = core.CleanString(data.Email, true /* lower */)
	if data.Email == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "email", Error: "email is required"})
	}

	resp := SuccessResponse{Success: "If an active account exists for this email address, a reset link has been sent."}

	stf, err := api.svc.GetByEmail(ctx.Request().Context(), data.Email)
	if err != nil {
		if errors.Cause(err) == staff.ErrNotFound {
			return ctx.JSON(http.StatusOK, resp)
		}
		return errors.Wrap(err, "finding staff member by email")
	}
	if !stf.IsActive {
		return ctx.JSON(http.StatusOK, resp)
	}

	token, err := staff.MakeToken(api.conf, stf)
	if err != nil {
		return errors.Wrap(err, "generating password reset token")
	}
	api.emailSvc.SendMessages(passwordResetEmail(api.conf, stf, token))
	return ctx.JSON(http.StatusOK, resp)
}

func (api *staffApi) confirmPasswordReset(ctx echo.Context) error {
	var data PasswordResetConfirmRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetConfirmRequest")
	}
	if data.Password != data.PasswordConfirm {
		return core.NewValidationError(nil, core.FieldError{Field: "password_confirm", Error: "passwords do not match"})
	}

	id, err := staff.DecodeUID(data.UID)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "uid", Error: staff.ErrInvalidToken.Error()})
	}
	stf, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == staff.ErrNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "uid", Error: staff.ErrInvalidToken.Error()})
		}
		return errors.Wrap(err, "finding staff member by ID")
	}
	if err = staff.VerifyToken(api.conf, stf, data.Token); err != nil {
		switch err {
		case staff.ErrInvalidToken, staff.ErrTokenExpired:
			return core.NewValidationError(nil, core.FieldError{Field: "token", Error: err.Error()})
		}
		return errors.Wrap(err, "verifying password reset token")
	}

	if _, err = api.svc.SetPassword(ctx.Request().Context(), stf.ID, data.Password); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset."})
}

func (api *staffApi) destroy(ctx echo.Context) error {
	stf, ok := ctx.Get("object").(staff.Staff)
	if !ok {
		return errors.Wrap(errStaffNotFoundInCtx, "retrieving object from context")
	}

	// Say No to Suicide! ctxStaff cannot delete themselves
	ctxStf, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	if stf.ID == ctxStf.ID {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), stf.ID); err != nil {
		return errors.Wrap(err, "deleting staff member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *staffApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	// Say No to Suicide! ctxStaff cannot delete themselves
	ctxStf, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	sort.Strings(query.IDs)
	if i := sort.SearchStrings(query.IDs, ctxStf.ID); i < len(query.IDs) {
		if match := query.IDs[i]; ctxStf.ID == match {
			return errHttpForbidden
		}
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *staffApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, staff.Roles)
}

func ctxStaffOrAdminMiddleware(svc *staff.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxStf, err := getContextStaff(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context staff")
			}

			if ctx.Param("id") == ctxStf.ID || ctxStf.IsAdmin() {
				if stf, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
					ctx.Set("object", stf)
					return next(ctx)
				} else if errors.Cause(err) != staff.ErrNotFound {
					return errors.Wrap(err, "finding staff member by ID")
				}
			}
			return errHttpNotFound
		}
	}
}

var passwordResetTmpl = texttmpl.Must(texttmpl.New("passwordReset").Parse(`Hello {{.Name}},

You requested a password reset for your {{.AppName}} account.
Follow this link to choose a new password:

  {{.URL}}

If you did not request a reset, you can safely ignore this email.
`))

func passwordResetEmail(conf *core.Config, stf staff.Staff, token string) *core.EmailMessage {
	url := fmt.Sprintf("%s/password-reset/confirm?uid=%s&token=%s", conf.FrontendBaseURL, staff.EncodeUID(stf), token)
	return &core.EmailMessage{
		To:       []mail.Address{{Name: stf.Name, Address: stf.Email}},
		Subject:  fmt.Sprintf("Password reset on %s", conf.AppName),
		Template: passwordResetTmpl,
		TemplateData: struct {
			Name    string
			AppName string
			URL     string
		}{stf.Name, conf.AppName, url},
	}
}

type (
	LoginResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email"`
	}

	PasswordResetConfirmRequest struct {
		UID             string `json:"uid"`
		Token           string `json:"token"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)
