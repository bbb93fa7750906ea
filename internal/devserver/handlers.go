package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/example/flowershop/internal/auth"
	"github.com/example/flowershop/internal/order"
)

type pageJSON[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return page, pageSize
}

// ---- auth ----

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.state.mu.RLock()
	acct, ok := s.state.accounts[req.Email]
	s.state.mu.RUnlock()
	if !ok || !auth.CheckPassword(req.Password, acct.passwordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, _, err := s.issuer.Issue(acct.user.ID, acct.user.Email, acct.user.Nickname)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": acct.user})
}

// ---- profile and addresses ----

func (s *Server) handleProfile(c *gin.Context) {
	claims := currentClaims(c)

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	for _, acct := range s.state.accounts {
		if acct.user.ID == claims.UserID {
			c.JSON(http.StatusOK, acct.user)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	claims := currentClaims(c)

	var req userJSON
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for _, acct := range s.state.accounts {
		if acct.user.ID != claims.UserID {
			continue
		}
		if req.Nickname != "" {
			acct.user.Nickname = req.Nickname
		}
		if req.Avatar != "" {
			acct.user.Avatar = req.Avatar
		}
		if req.Phone != "" {
			acct.user.Phone = req.Phone
		}
		c.JSON(http.StatusOK, acct.user)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
}

func (s *Server) handleListAddresses(c *gin.Context) {
	claims := currentClaims(c)

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	addresses := s.state.addresses[claims.UserID]
	if addresses == nil {
		addresses = []addressJSON{}
	}
	c.JSON(http.StatusOK, addresses)
}

func (s *Server) handleAddAddress(c *gin.Context) {
	claims := currentClaims(c)

	var addr addressJSON
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	addr.ID = uuid.NewString()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if addr.IsDefault {
		clearDefault(s.state.addresses[claims.UserID])
	}
	s.state.addresses[claims.UserID] = append(s.state.addresses[claims.UserID], addr)
	c.JSON(http.StatusCreated, addr)
}

func (s *Server) handleUpdateAddress(c *gin.Context) {
	claims := currentClaims(c)
	id := c.Param("id")

	var req addressJSON
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	addresses := s.state.addresses[claims.UserID]
	for i := range addresses {
		if addresses[i].ID != id {
			continue
		}
		req.ID = id
		if req.IsDefault {
			clearDefault(addresses)
		}
		addresses[i] = req
		c.JSON(http.StatusOK, req)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
}

func (s *Server) handleDeleteAddress(c *gin.Context) {
	claims := currentClaims(c)
	id := c.Param("id")

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	addresses := s.state.addresses[claims.UserID]
	for i := range addresses {
		if addresses[i].ID == id {
			s.state.addresses[claims.UserID] = append(addresses[:i], addresses[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
}

func (s *Server) handleSetDefaultAddress(c *gin.Context) {
	claims := currentClaims(c)
	id := c.Param("id")

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	addresses := s.state.addresses[claims.UserID]
	for i := range addresses {
		if addresses[i].ID != id {
			continue
		}
		clearDefault(addresses)
		addresses[i].IsDefault = true
		c.JSON(http.StatusOK, addresses[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
}

func clearDefault(addresses []addressJSON) {
	for i := range addresses {
		addresses[i].IsDefault = false
	}
}

// ---- catalog ----

func (s *Server) handleListProducts(c *gin.Context) {
	page, pageSize := pageParams(c)

	s.state.mu.RLock()
	matched := s.state.filterProducts(c.Query("categoryId"), c.Query("search"))
	s.state.mu.RUnlock()

	c.JSON(http.StatusOK, pageJSON[productJSON]{
		Data:     paginate(matched, page, pageSize),
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *Server) handleSearchProducts(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}
	page, pageSize := pageParams(c)

	s.state.mu.RLock()
	matched := s.state.filterProducts("", keyword)
	s.state.mu.RUnlock()

	c.JSON(http.StatusOK, pageJSON[productJSON]{
		Data:     paginate(matched, page, pageSize),
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *Server) handleFeaturedProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))

	s.state.mu.RLock()
	featured := s.state.featuredProducts(limit)
	s.state.mu.RUnlock()

	c.JSON(http.StatusOK, featured)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	s.state.mu.RLock()
	p, ok := s.state.findProduct(c.Param("id"))
	s.state.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleListCategories(c *gin.Context) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	c.JSON(http.StatusOK, s.state.categories)
}

func (s *Server) handleCategoryTree(c *gin.Context) {
	// The sample catalog is flat; the tree is the same list with empty
	// children.
	s.handleListCategories(c)
}

func (s *Server) handleGetCategory(c *gin.Context) {
	id := c.Param("id")

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	for _, cat := range s.state.categories {
		if cat.ID == id {
			c.JSON(http.StatusOK, cat)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
}

// ---- orders ----

func (s *Server) handleCreateOrder(c *gin.Context) {
	claims := currentClaims(c)

	var req struct {
		Items []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
			Price     int64  `json:"price"`
		} `json:"items"`
		Consignee    string `json:"consignee"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
		Remark       string `json:"remark"`
		DeliveryType string `json:"delivery_type"`
		TotalAmount  int64  `json:"total_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "order must have at least one item"})
		return
	}
	if req.Address == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "address is required"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	now := time.Now()
	o := orderJSON{
		ID:           uuid.NewString(),
		OrderNo:      s.state.nextOrderNo(now),
		UserID:       claims.UserID,
		Status:       string(order.StatusPending),
		TotalAmount:  req.TotalAmount,
		Consignee:    req.Consignee,
		Phone:        req.Phone,
		Address:      req.Address,
		Remark:       req.Remark,
		DeliveryType: req.DeliveryType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if o.DeliveryType == "" {
		o.DeliveryType = "delivery"
	}

	for _, item := range req.Items {
		p, ok := s.state.findProduct(item.ProductID)
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown product " + item.ProductID})
			return
		}
		if item.Quantity > p.Stock {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient stock for " + item.ProductID})
			return
		}
		image := ""
		if len(p.ImageURLs) > 0 {
			image = p.ImageURLs[0]
		}
		o.Items = append(o.Items, orderItemJSON{
			ProductID: p.ID,
			Name:      p.Name,
			NameEn:    p.NameEn,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     image,
		})
	}

	s.state.orders = append([]orderJSON{o}, s.state.orders...)
	c.JSON(http.StatusCreated, o)
}

func (s *Server) handleListOrders(c *gin.Context) {
	claims := currentClaims(c)
	page, pageSize := pageParams(c)
	statusFilter := c.Query("status")

	s.state.mu.RLock()
	matched := make([]orderJSON, 0, len(s.state.orders))
	for _, o := range s.state.orders {
		if o.UserID != claims.UserID {
			continue
		}
		if statusFilter != "" && o.Status != statusFilter {
			continue
		}
		matched = append(matched, o)
	}
	s.state.mu.RUnlock()

	c.JSON(http.StatusOK, pageJSON[orderJSON]{
		Data:     paginate(matched, page, pageSize),
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	claims := currentClaims(c)

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	o, ok := s.state.findOrder(c.Param("id"))
	if !ok || o.UserID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) handleUpdateOrderStatus(c *gin.Context) {
	claims := currentClaims(c)

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	o, ok := s.state.findOrder(c.Param("id"))
	if !ok || o.UserID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if err := order.ValidateTransition(order.Status(o.Status), order.Status(req.Status)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	o.Status = req.Status
	o.UpdatedAt = time.Now()
	c.JSON(http.StatusOK, o)
}

func (s *Server) handleOrderStats(c *gin.Context) {
	claims := currentClaims(c)

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	stats := order.Stats{}
	for _, o := range s.state.orders {
		if o.UserID != claims.UserID {
			continue
		}
		switch order.Status(o.Status) {
		case order.StatusPending:
			stats.Pending++
		case order.StatusPaid:
			stats.Paid++
		case order.StatusShipped:
			stats.Shipped++
		case order.StatusDelivered:
			stats.Delivered++
		case order.StatusCancelled:
			stats.Cancelled++
		}
		stats.Total++
	}
	c.JSON(http.StatusOK, stats)
}

// ---- files ----

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	// Nothing is stored; the dev backend just echoes a plausible URL.
	c.JSON(http.StatusOK, gin.H{"url": "/uploads/" + uuid.NewString() + "_" + file.Filename})
}
