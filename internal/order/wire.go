package order

import (
	"time"

	"github.com/example/flowershop/internal/i18n"
)

// Backend wire shapes, snake_case as the REST API speaks them.

type itemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	NameEn    string `json:"name_en"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

type orderDTO struct {
	ID            string    `json:"id"`
	OrderNo       string    `json:"order_no"`
	Status        string    `json:"status"`
	Items         []itemDTO `json:"items"`
	TotalAmount   int64     `json:"total_amount"`
	Consignee     string    `json:"consignee"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Remark        string    `json:"remark"`
	DeliveryType  string    `json:"delivery_type"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type orderPageDTO struct {
	Data     []orderDTO `json:"data"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

type createOrderRequest struct {
	Items        []createItemRequest `json:"items"`
	Consignee    string              `json:"consignee"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	Remark       string              `json:"remark"`
	DeliveryType string              `json:"delivery_type"`
	TotalAmount  int64               `json:"total_amount"`
}

type createItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func normalizeOrder(dto orderDTO) Order {
	o := Order{
		ID:            dto.ID,
		OrderNo:       dto.OrderNo,
		Status:        Status(dto.Status),
		TotalAmount:   dto.TotalAmount,
		Consignee:     dto.Consignee,
		Phone:         dto.Phone,
		Address:       dto.Address,
		Remark:        dto.Remark,
		DeliveryType:  dto.DeliveryType,
		PaymentMethod: dto.PaymentMethod,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	}
	for _, item := range dto.Items {
		o.Items = append(o.Items, Item{
			ProductID: item.ProductID,
			Name:      i18n.NewText(item.Name, item.NameEn),
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}
	return o
}

func buildCreateRequest(draft Draft) createOrderRequest {
	req := createOrderRequest{
		Consignee:    draft.Consignee,
		Phone:        draft.Phone,
		Address:      draft.Address,
		Remark:       draft.Remark,
		DeliveryType: draft.DeliveryType,
		TotalAmount:  draft.TotalAmount,
	}
	if req.DeliveryType == "" {
		req.DeliveryType = "delivery"
	}
	for _, item := range draft.Items {
		req.Items = append(req.Items, createItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return req
}
