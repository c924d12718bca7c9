package accounts

import (
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// APIController exposes the JSON endpoints: registration, login, refresh,
// self-service profile management, and the per-user costing resources.
type APIController struct {
	Logger       Logger
	Repo         RepositoryManager
	Service      *Accounts
	Resolver     *IdentityResolver
	ErrorHandler func(router.Context, error) error
}

type APIControllerOption func(*APIController) *APIController

func WithControllerLogger(logger Logger) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Logger = logger
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Repo = repo
		return c
	}
}

func WithControllerService(service *Accounts) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Service = service
		return c
	}
}

func WithControllerResolver(resolver *IdentityResolver) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Resolver = resolver
		return c
	}
}

func NewAPIController(opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in accounts controller...")
	}

	if c.Service == nil {
		panic("Missing Accounts service in accounts controller...")
	}

	if c.Resolver == nil {
		panic("Missing IdentityResolver in accounts controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.respondError
	}

	return c
}

// RegisterAPIRoutes wires every endpoint. Everything past the auth pair runs
// behind the resolver middleware.
func RegisterAPIRoutes[T any](app router.Router[T], opts ...APIControllerOption) *APIController {
	controller := NewAPIController(opts...)

	protected := controller.Resolver.Protected(controller.ErrorHandler)

	app.Post("/auth/register", controller.RegisterPost).SetName("auth.register")
	app.Post("/auth/login", controller.LoginPost).SetName("auth.login")
	app.Get("/auth/refresh", controller.RefreshGet, protected).SetName("auth.refresh")

	app.Get("/users/me", controller.MeShow, protected).SetName("users.me.get")
	app.Put("/users/me", controller.MeUpdate, protected).SetName("users.me.put")
	app.Delete("/users/me", controller.MeDelete, protected).SetName("users.me.delete")

	app.Get("/materials", controller.MaterialsList, protected).SetName("materials.list")
	app.Post("/materials", controller.MaterialsCreate, protected).SetName("materials.create")
	app.Get("/materials/:id", controller.MaterialsShow, protected).SetName("materials.get")
	app.Put("/materials/:id", controller.MaterialsUpdate, protected).SetName("materials.put")
	app.Delete("/materials/:id", controller.MaterialsDelete, protected).SetName("materials.delete")
	app.Delete("/materials", controller.MaterialsBulkDelete, protected).SetName("materials.bulk_delete")

	app.Get("/products", controller.ProductsList, protected).SetName("products.list")
	app.Post("/products", controller.ProductsCreate, protected).SetName("products.create")
	app.Get("/products/:id", controller.ProductsShow, protected).SetName("products.get")
	app.Put("/products/:id", controller.ProductsUpdate, protected).SetName("products.put")
	app.Delete("/products/:id", controller.ProductsDelete, protected).SetName("products.delete")
	app.Delete("/products", controller.ProductsBulkDelete, protected).SetName("products.bulk_delete")

	app.Post("/import", controller.ImportPost, protected).SetName("import.post")

	return controller
}

// UserResponse is the public shape of an account. The password hash never
// leaves the service boundary.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// TokenResponse is the login and refresh payload
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterPayload is the registration body
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.FullName, validation.Length(0, 200)),
	)
}

func (a *APIController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, bindError(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, validationError(err))
	}

	user, err := a.Service.Register(ctx.Context(), RegisterAccountInput{
		Email:    payload.Email,
		Password: payload.Password,
		FullName: payload.FullName,
	})
	if err != nil {
		a.Logger.Error("register account error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toUserResponse(user))
}

// LoginPayload is the login body
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *APIController) LoginPost(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, bindError(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, validationError(err))
	}

	token, err := a.Service.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (a *APIController) RefreshGet(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	token, err := a.Service.Refresh(ctx.Context(), user)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (a *APIController) MeShow(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}
	return ctx.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfilePayload is the profile update body. Absent fields stay as
// they are.
type UpdateProfilePayload struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

// Validate will run validation rules
func (r UpdateProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.FullName, validation.Length(0, 200)),
	)
}

func (a *APIController) MeUpdate(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	payload := new(UpdateProfilePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, bindError(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, validationError(err))
	}

	updated, err := a.Service.UpdateProfile(ctx.Context(), user, UpdateProfileInput{
		Email:    payload.Email,
		FullName: payload.FullName,
		Password: payload.Password,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toUserResponse(updated))
}

func (a *APIController) MeDelete(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	if err := a.Service.DeleteAccount(ctx.Context(), user); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MaterialPayload is the material create body
type MaterialPayload struct {
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	PriceAmount   float64 `json:"price_amount"`
	PriceQuantity float64 `json:"price_quantity"`
}

// Validate will run validation rules
func (r MaterialPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Unit, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.PriceAmount, validation.Min(0.0)),
		validation.Field(&r.PriceQuantity, validation.Min(0.0)),
	)
}

// MaterialUpdatePayload is the material update body. Absent fields stay as
// they are.
type MaterialUpdatePayload struct {
	Name          *string  `json:"name"`
	Unit          *string  `json:"unit"`
	PriceAmount   *float64 `json:"price_amount"`
	PriceQuantity *float64 `json:"price_quantity"`
}

// Validate will run validation rules
func (r MaterialUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 255)),
		validation.Field(&r.Unit, validation.Length(1, 50)),
	)
}

func (a *APIController) MaterialsList(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	records, err := a.Repo.Materials().List(ctx.Context(), user.ID, ctx.Query("search"))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, records)
}

func (a *APIController) MaterialsCreate(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	payload := new(MaterialPayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, bindError(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, validationError(err))
	}

	record, err := a.Repo.Materials().Create(ctx.Context(), &Material{
		UserID:        user.ID,
		Name:          payload.Name,
		Unit:          payload.Unit,
		PriceAmount:   payload.PriceAmount,
		PriceQuantity: payload.PriceQuantity,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, record)
}

func (a *APIController) MaterialsShow(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	record, err := a.Repo.Materials().GetByID(ctx.Context(), user.ID, id)
	if err != nil {
		return a.ErrorHandler(ctx, notFoundError(err, "Material not found"))
	}

	return ctx.JSON(http.StatusOK, record)
}

func (a *APIController) MaterialsUpdate(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(MaterialUpdatePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, bindError(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, validationError(err))
	}

	record, err := a.Repo.Materials().GetByID(ctx.Context(), user.ID, id)
	if err != nil {
		return a.ErrorHandler(ctx, notFoundError(err, "Material not found"))
	}

	if payload.Name != nil {
		record.Name = *payload.Name
	}
	if payload.Unit != nil {
		record.Unit = *payload.Unit
	}
	if payload.PriceAmount != nil {
		record.PriceAmount = *payload.PriceAmount
	}
	if payload.PriceQuantity != nil {
		record.PriceQuantity = *payload.PriceQuantity
	}

	updated, err := a.Repo.Materials().Update(ctx.Context(), record)
	if err != nil {
		return a.ErrorHandler(ctx, notFoundError(err, "Material not found"))
	}

	return ctx.JSON(http.StatusOK, updated)
}

func (a *APIController) MaterialsDelete(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Materials().Delete(ctx.Context(), user.ID, id); err != nil {
		return a.ErrorHandler(ctx, notFoundError(err, "Material not found"))
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (a *APIController) MaterialsBulkDelete(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	ids, err := parseIDsQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Materials().DeleteMany(ctx.Context(), user.ID, ids); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ProductEntryPayload is one recipe line of a product body
type ProductEntryPayload struct {
	MaterialID  *uuid.UUID `json:"material_id"`
	QuantityStr string     `json:"quantity_str"`
}

// MaterialSnapshotPayload freezes the pricing a product was costed with
type MaterialSnapshotPayload struct {
	MaterialID    *uuid.UUID `json:"material_id"`
	Name          string     `json:"name"`
	Unit          string     `json:"unit"`
	PriceAmount   float64    `json:"price_amount"`
	PriceQuantity float64    `json:"price_quantity"`
	MarketPrice   float64    `json:"market_price_per_unit"`
	QuantityUsed  float64    `json:"quantity_used"`
	LineCost      float64    `json:"line_cost"`
}

// ProductPayload is the product create body
type ProductPayload struct {
	ProductName       string                    `json:"product_name"`
	BatchOutputQty    float64                   `json:"batch_output_quantity"`
	PackagingCost     float64                   `json:"packaging_cost_per_unit"`
	MarginPercentage  float64                   `json:"margin_percentage"`
	Result            CalculationResult         `json:"result"`
	Entries           []ProductEntryPayload     `json:"entries"`
	MaterialSnapshots []MaterialSnapshotPayload `json:"material_snapshots"`
}

// Validate will run validation rules
func (r ProductPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.BatchOutputQty, validation.Min(0.0)),
		validation.Field(&r.PackagingCost, validation.Min(0.0)),
	)
}

// ProductUpdatePayload is the product update body. Absent fields stay as
// they are; entries and snapshots are replaced wholesale when present.
type ProductUpdatePayload struct {
	ProductName       *string                    `json:"product_name"`
	BatchOutputQty    *float64                   `json:"batch_output_quantity"`
	PackagingCost     *float64                   `json:"packaging_cost_per_unit"`
	MarginPercentage  *float64                   `json:"margin_percentage"`
	Result            *CalculationResult         `json:"result"`
	Entries           *[]ProductEntryPayload     `json:"entries"`
	MaterialSnapshots *[]MaterialSnapshotPayload `json:"material_snapshots"`
}

// Validate will run validation rules
func (r ProductUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductName, validation.Length(1, 255)),
	)
}

func (a *APIController) ProductsList(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	records, err := a.Repo.Products().List(ctx.Context(), user.ID, ctx.Query("search"))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, records)
}

func (a *APIController) ProductsCreate(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	payload := new(ProductPayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, bindError(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, validationError(err))
	}

	record := &Product{
		UserID:            user.ID,
		ProductName:       payload.ProductName,
		BatchOutputQty:    payload.BatchOutputQty,
		PackagingCost:     payload.PackagingCost,
		MarginPercentage:  payload.MarginPercentage,
		TotalMaterialCost: payload.Result.TotalMaterialCost,
		CostPerUnit:       payload.Result.CostPerUnit,
		FinalCostPerUnit:  payload.Result.FinalCostPerUnit,
		SellingPrice:      payload.Result.SellingPrice,
		Entries:           buildEntries(payload.Entries),
		MaterialSnapshots: buildSnapshots(payload.MaterialSnapshots),
	}

	created, err := a.Repo.Products().Create(ctx.Context(), record)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, created)
}

func (a *APIController) ProductsShow(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	record, err := a.Repo.Products().GetByID(ctx.Context(), user.ID, id)
	if err != nil {
		return a.ErrorHandler(ctx, notFoundError(err, "Product not found"))
	}

	return ctx.JSON(http.StatusOK, record)
}

func (a *APIController) ProductsUpdate(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(ProductUpdatePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, bindError(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, validationError(err))
	}

	record, err := a.Repo.Products().GetByID(ctx.Context(), user.ID, id)
	if err != nil {
		return a.ErrorHandler(ctx, notFoundError(err, "Product not found"))
	}

	if payload.ProductName != nil {
		record.ProductName = *payload.ProductName
	}
	if payload.BatchOutputQty != nil {
		record.BatchOutputQty = *payload.BatchOutputQty
	}
	if payload.PackagingCost != nil {
		record.PackagingCost = *payload.PackagingCost
	}
	if payload.MarginPercentage != nil {
		record.MarginPercentage = *payload.MarginPercentage
	}
	if payload.Result != nil {
		record.TotalMaterialCost = payload.Result.TotalMaterialCost
		record.CostPerUnit = payload.Result.CostPerUnit
		record.FinalCostPerUnit = payload.Result.FinalCostPerUnit
		record.SellingPrice = payload.Result.SellingPrice
	}
	if payload.Entries != nil {
		record.Entries = buildEntries(*payload.Entries)
	}
	if payload.MaterialSnapshots != nil {
		record.MaterialSnapshots = buildSnapshots(*payload.MaterialSnapshots)
	}

	updated, err := a.Repo.Products().Update(ctx.Context(), record)
	if err != nil {
		return a.ErrorHandler(ctx, notFoundError(err, "Product not found"))
	}

	return ctx.JSON(http.StatusOK, updated)
}

func (a *APIController) ProductsDelete(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Products().Delete(ctx.Context(), user.ID, id); err != nil {
		return a.ErrorHandler(ctx, notFoundError(err, "Product not found"))
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (a *APIController) ProductsBulkDelete(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	ids, err := parseIDsQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Products().DeleteMany(ctx.Context(), user.ID, ids); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ImportPayload is the bulk import body
type ImportPayload struct {
	Materials    []ImportMaterialLine `json:"materials"`
	ProductLines []ImportProductLine  `json:"product_lines"`
}

func (a *APIController) ImportPost(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialsInvalid)
	}

	payload := new(ImportPayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, bindError(err))
	}

	var result *ImportResult
	msg := BulkImportMessage{
		UserID:       user.ID,
		Materials:    payload.Materials,
		ProductLines: payload.ProductLines,
		OnResponse: func(r *ImportResult) {
			result = r
		},
	}

	handler := NewBulkImportHandler(a.Repo)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("bulk import error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (a *APIController) respondError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		a.Logger.Error("unexpected error reached transport", "error", err)
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "internal server error").
			WithCode(goerrors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = http.StatusInternalServerError
	}

	return ctx.JSON(code, map[string]any{
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
			"category":  richErr.Category,
		},
	})
}

func buildEntries(payloads []ProductEntryPayload) []*ProductEntry {
	entries := make([]*ProductEntry, 0, len(payloads))
	for _, p := range payloads {
		entries = append(entries, &ProductEntry{
			MaterialID:  p.MaterialID,
			QuantityStr: p.QuantityStr,
		})
	}
	return entries
}

func buildSnapshots(payloads []MaterialSnapshotPayload) []*MaterialSnapshot {
	snapshots := make([]*MaterialSnapshot, 0, len(payloads))
	for _, p := range payloads {
		snapshots = append(snapshots, &MaterialSnapshot{
			MaterialID:    p.MaterialID,
			Name:          p.Name,
			Unit:          p.Unit,
			PriceAmount:   p.PriceAmount,
			PriceQuantity: p.PriceQuantity,
			MarketPrice:   p.MarketPrice,
			QuantityUsed:  p.QuantityUsed,
			LineCost:      p.LineCost,
		})
	}
	return snapshots
}

func bindError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
		WithCode(goerrors.CodeBadRequest)
}

func validationError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid request payload").
		WithCode(http.StatusUnprocessableEntity).
		WithMetadata(map[string]any{
			"fields": err.Error(),
		})
}

func notFoundError(err error, message string) error {
	var richErr *goerrors.Error
	if goerrors.IsNotFound(err) || goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryNotFound {
		return goerrors.New(message, goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound)
	}
	return err
}

func parseIDParam(ctx router.Context) (uuid.UUID, error) {
	raw := ctx.Param("id", "")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.New("invalid resource id", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"id": raw})
	}
	return id, nil
}

func parseIDsQuery(ctx router.Context) ([]uuid.UUID, error) {
	raw := strings.TrimSpace(ctx.Query("ids"))
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, goerrors.New("invalid resource id", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest).
				WithMetadata(map[string]any{"id": part})
		}
		ids = append(ids, id)
	}

	return ids, nil
}
