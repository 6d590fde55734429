package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"pricelist/internal/assets"
	"pricelist/internal/domain"
	"pricelist/internal/repository"
	"pricelist/internal/service"
)

type Server struct {
	engine   *gin.Engine
	accounts *service.AccountService
	catalog  *service.CatalogService
	orders   *service.OrderService
	uploads  assets.Uploader
}

func NewServer(accounts *service.AccountService, catalog *service.CatalogService, orders *service.OrderService, uploads assets.Uploader) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{engine: r, accounts: accounts, catalog: catalog, orders: orders, uploads: uploads}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")
	{
		api.POST("/register", s.register)
		api.POST("/login", s.login)

		api.GET("/items", s.listItems)
		api.POST("/items", s.requireAdmin, s.createItem)
		api.PUT("/items/:id", s.requireAdmin, s.updateItem)
		api.DELETE("/items/:id", s.requireAdmin, s.deleteItem)

		api.POST("/orders", s.requireUser, s.createOrder)
		api.GET("/orders", s.requireUser, s.listOrders)
		api.PUT("/orders/:id/status", s.requireAdmin, s.updateOrderStatus)
		api.GET("/admin/orders", s.requireAdmin, s.listAllOrders)
	}
}

// Auth handlers
type registerReq struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	AdminCode string `json:"adminCode"`
}

// @Summary Register user
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerReq true "Credentials"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	a, err := s.accounts.Register(c, req.Username, req.Password, req.AdminCode)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "isAdmin": a.IsAdmin})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	a, err := s.accounts.Login(c, req.Username, req.Password)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "isAdmin": a.IsAdmin, "username": a.Username})
}

// Item handlers

// @Summary Create item
// @Tags items
// @Accept mpfd
// @Produce json
// @Param username header string true "Acting admin"
// @Param name formData string true "Name"
// @Param price formData number true "Price"
// @Param unit formData string true "Unit, e.g. kg"
// @Param image formData file false "Image"
// @Success 201 {object} domain.Item
// @Failure 400 {object} map[string]string
// @Router /items [post]
func (s *Server) createItem(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	var imageURL string
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		imageURL, err = s.uploads.Upload(c, header.Filename, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
	}

	it, err := s.catalog.Create(c, domain.Item{
		Name:     c.PostForm("name"),
		Price:    price,
		Unit:     c.PostForm("unit"),
		ImageURL: imageURL,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, it)
}

// @Summary List items
// @Tags items
// @Produce json
// @Success 200 {array} domain.Item
// @Router /items [get]
func (s *Server) listItems(c *gin.Context) {
	list, err := s.catalog.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateItemReq struct {
	Name      *string  `json:"name"`
	Price     *float64 `json:"price"`
	Unit      *string  `json:"unit"`
	ImageURL  *string  `json:"imageUrl"`
	Available *bool    `json:"available"`
}

// @Summary Update item
// @Tags items
// @Accept json
// @Produce json
// @Param username header string true "Acting admin"
// @Param id path string true "Item ID"
// @Param input body updateItemReq true "Fields to change"
// @Success 200 {object} domain.Item
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /items/{id} [put]
func (s *Server) updateItem(c *gin.Context) {
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	it, err := s.catalog.Update(c, c.Param("id"), service.ItemPatch{
		Name:      req.Name,
		Price:     req.Price,
		Unit:      req.Unit,
		ImageURL:  req.ImageURL,
		Available: req.Available,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, it)
}

// @Summary Delete item
// @Tags items
// @Param username header string true "Acting admin"
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /items/{id} [delete]
func (s *Server) deleteItem(c *gin.Context) {
	if err := s.catalog.Delete(c, c.Param("id")); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Order handlers
type orderLineReq struct {
	ItemID   string `json:"itemId"`
	Quantity int64  `json:"quantity"`
}

type createOrderReq struct {
	Items []orderLineReq `json:"items"`
}

// @Summary Place order
// @Tags orders
// @Accept json
// @Produce json
// @Param username header string true "Acting user"
// @Param input body createOrderReq true "Requested lines"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, l := range req.Items {
		lines = append(lines, domain.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	o, err := s.orders.PlaceOrder(c, actingUser(c), lines)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary List own orders
// @Tags orders
// @Produce json
// @Param username header string true "Acting user"
// @Success 200 {array} service.OrderView
// @Failure 401 {object} map[string]string
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	list, err := s.orders.ListForUser(c, actingUser(c))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary List all orders
// @Tags orders
// @Produce json
// @Param username header string true "Acting admin"
// @Success 200 {array} service.OrderView
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/orders [get]
func (s *Server) listAllOrders(c *gin.Context) {
	list, err := s.orders.ListAll(c)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param username header string true "Acting admin"
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.UpdateStatus(c, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
