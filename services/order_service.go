package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/models"
)

// CheckoutCustomer identifies the shopper placing an order
type CheckoutCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CheckoutAddress is the shipping address submitted at checkout
type CheckoutAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

// CheckoutItem is one requested line item. Any price supplied by the
// client is ignored; totals are always computed from the catalog.
type CheckoutItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
	Size      *int `json:"size"`
}

// CheckoutRequest is the input to both checkout paths
type CheckoutRequest struct {
	Customer CheckoutCustomer `json:"customer"`
	Address  CheckoutAddress  `json:"address"`
	Items    []CheckoutItem   `json:"items"`
}

// PaymentHandle is returned to the client after a gateway checkout. It
// carries everything the checkout page needs to open the payment widget
// and never includes the secret key.
type PaymentHandle struct {
	OrderID         uint   `json:"order_id"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	KeyID           string `json:"key_id"`
}

// OrderUpdate is the whitelist of fields an admin may change on an order
type OrderUpdate struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	CourierName    *string `json:"courier_name"`
	AdminNote      *string `json:"admin_note"`
	PaymentStatus  *string `json:"payment_status"`
}

// validateCheckout rejects incomplete checkout input before any state is
// touched
func validateCheckout(req *CheckoutRequest) error {
	if strings.TrimSpace(req.Customer.Name) == "" {
		return &ValidationError{Field: "customer.name", Message: "Customer name is required"}
	}
	if strings.TrimSpace(req.Customer.Email) == "" {
		return &ValidationError{Field: "customer.email", Message: "Customer email is required"}
	}
	if strings.TrimSpace(req.Customer.Phone) == "" {
		return &ValidationError{Field: "customer.phone", Message: "Customer phone is required"}
	}
	if strings.TrimSpace(req.Address.AddressLine1) == "" ||
		strings.TrimSpace(req.Address.City) == "" ||
		strings.TrimSpace(req.Address.State) == "" ||
		strings.TrimSpace(req.Address.Pincode) == "" {
		return &ValidationError{Field: "address", Message: "Complete address is required"}
	}
	if len(req.Items) == 0 {
		return &ValidationError{Field: "items", Message: "At least one item is required"}
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return &ValidationError{Field: "items", Message: "Item quantity must be positive"}
		}
	}
	return nil
}

// normalizeCheckout trims all string fields and lowercases the email so
// repeat shoppers map onto the same user row
func normalizeCheckout(req *CheckoutRequest) {
	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Email = strings.ToLower(strings.TrimSpace(req.Customer.Email))
	req.Customer.Phone = strings.TrimSpace(req.Customer.Phone)
	req.Address.FullName = strings.TrimSpace(req.Address.FullName)
	req.Address.Phone = strings.TrimSpace(req.Address.Phone)
	req.Address.AddressLine1 = strings.TrimSpace(req.Address.AddressLine1)
	req.Address.AddressLine2 = strings.TrimSpace(req.Address.AddressLine2)
	req.Address.City = strings.TrimSpace(req.Address.City)
	req.Address.State = strings.TrimSpace(req.Address.State)
	req.Address.Pincode = strings.TrimSpace(req.Address.Pincode)
	req.Address.Country = strings.TrimSpace(req.Address.Country)
}

// upsertUser finds a customer by normalized email or creates one
func upsertUser(tx *gorm.DB, customer CheckoutCustomer) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", customer.Email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	user = models.User{
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// createAddress inserts a fresh address row for this order. Addresses are
// never deduplicated against earlier orders.
func createAddress(tx *gorm.DB, user *models.User, addr CheckoutAddress, defaultCountry string) (*models.Address, error) {
	fullName := addr.FullName
	if fullName == "" {
		fullName = user.Name
	}
	phone := addr.Phone
	if phone == "" {
		phone = user.Phone
	}
	country := addr.Country
	if country == "" {
		country = defaultCountry
	}

	address := models.Address{
		UserID:       user.ID,
		FullName:     fullName,
		Phone:        phone,
		AddressLine1: addr.AddressLine1,
		City:         addr.City,
		State:        addr.State,
		Pincode:      addr.Pincode,
		Country:      country,
	}
	if addr.AddressLine2 != "" {
		line2 := addr.AddressLine2
		address.AddressLine2 = &line2
	}

	if err := tx.Create(&address).Error; err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return &address, nil
}

// buildOrderItems checks availability for every requested item and
// snapshots current catalog prices. The running total uses the server-side
// price only, so client-supplied prices can never influence the amount
// charged.
func buildOrderItems(tx *gorm.DB, items []CheckoutItem) ([]models.OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		product, err := FindAvailable(tx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, decimal.Zero, err
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Price:     product.Price,
		})
	}

	return orderItems, total, nil
}

// loadOrder fetches an order with its items, products, user and address
func loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items.Product").Preload("User").Preload("Address").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	return &order, nil
}

// PlaceOrder runs the cash-on-delivery checkout. Customer upsert, address
// creation, availability checks, order creation and the stock decrement
// all commit or roll back together, so two concurrent checkouts can never
// both claim the last unit.
func PlaceOrder(db *gorm.DB, cfg *config.Config, req *CheckoutRequest) (*models.Order, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}
	normalizeCheckout(req)

	var orderID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := upsertUser(tx, req.Customer)
		if err != nil {
			return err
		}

		address, err := createAddress(tx, user, req.Address, cfg.DefaultCountry)
		if err != nil {
			return err
		}

		items, total, err := buildOrderItems(tx, req.Items)
		if err != nil {
			return err
		}

		order := models.Order{
			UserID:        user.ID,
			AddressID:     address.ID,
			TotalAmount:   total,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: models.PaymentMethodCOD,
			Items:         items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, item := range items {
			if err := DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loadOrder(db, orderID)
}

// PlaceOrderViaGateway runs the online-payment checkout. The order is
// persisted pending with the gateway's order id attached; stock is not
// decremented until the payment callback verifies.
func PlaceOrderViaGateway(db *gorm.DB, cfg *config.Config, req *CheckoutRequest) (*PaymentHandle, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}
	normalizeCheckout(req)

	// Availability gate and server-side total before involving the gateway
	_, total, err := buildOrderItems(db, req.Items)
	if err != nil {
		return nil, err
	}

	gateway := GetRazorpayService()
	amount := total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	receipt := "order_" + uuid.NewString()
	gatewayOrder, err := gateway.CreateOrder(amount, cfg.Currency, receipt, map[string]string{
		"customerEmail": req.Customer.Email,
		"customerName":  req.Customer.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	var orderID uint
	err = db.Transaction(func(tx *gorm.DB) error {
		user, err := upsertUser(tx, req.Customer)
		if err != nil {
			return err
		}

		address, err := createAddress(tx, user, req.Address, cfg.DefaultCountry)
		if err != nil {
			return err
		}

		// Re-gate availability inside the transaction; prices may not have
		// moved since the gateway call but stock can.
		items, _, err := buildOrderItems(tx, req.Items)
		if err != nil {
			return err
		}

		gatewayOrderID := gatewayOrder.ID
		order := models.Order{
			UserID:          user.ID,
			AddressID:       address.ID,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   models.PaymentMethodRazorpay,
			RazorpayOrderID: &gatewayOrderID,
			Items:           items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &PaymentHandle{
		OrderID:         orderID,
		RazorpayOrderID: gatewayOrder.ID,
		Amount:          gatewayOrder.Amount,
		Currency:        gatewayOrder.Currency,
		KeyID:           gateway.KeyID(),
	}, nil
}

// VerifyPayment checks a gateway callback signature and, on success,
// confirms the order and decrements stock. The signature is recomputed
// from the shared secret; a client-asserted success flag is never trusted.
// Repeated callbacks for an already-paid order are acknowledged without
// decrementing stock again.
func VerifyPayment(db *gorm.DB, razorpayOrderID, razorpayPaymentID, signature string, orderID uint) (*models.Order, error) {
	gateway := GetRazorpayService()

	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}

	if !gateway.VerifySignature(razorpayOrderID, razorpayPaymentID, signature) {
		// Fail closed: record the failed attempt on the order
		if err := db.Model(order).Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
			return nil, fmt.Errorf("mark payment failed: %w", err)
		}
		return nil, ErrVerificationFailed
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var current models.Order
		if err := tx.Preload("Items").First(&current, orderID).Error; err != nil {
			return fmt.Errorf("reload order %d: %w", orderID, err)
		}

		// Gateway callbacks can arrive more than once; the paid flag is
		// checked and set in the same transaction as the decrement.
		if current.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}

		if err := tx.Model(&current).Updates(map[string]interface{}{
			"payment_status":      models.PaymentStatusPaid,
			"status":              models.OrderStatusConfirmed,
			"razorpay_payment_id": razorpayPaymentID,
		}).Error; err != nil {
			return fmt.Errorf("confirm order %d: %w", orderID, err)
		}

		for _, item := range current.Items {
			if err := DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loadOrder(db, orderID)
}

// UpdateOrder applies an admin's whitelisted changes to an order. Status
// changes must follow the order lifecycle; anything else is rejected.
func UpdateOrder(db *gorm.DB, orderID uint, update *OrderUpdate) (*models.Order, error) {
	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if update.Status != nil {
		if !models.IsValidOrderStatus(*update.Status) {
			return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("Unknown order status %q", *update.Status)}
		}
		if !models.CanTransitionOrderStatus(order.Status, *update.Status) {
			return nil, &InvalidTransitionError{From: order.Status, To: *update.Status}
		}
		updates["status"] = *update.Status
	}
	if update.PaymentStatus != nil {
		if !models.IsValidPaymentStatus(*update.PaymentStatus) {
			return nil, &ValidationError{Field: "payment_status", Message: fmt.Sprintf("Unknown payment status %q", *update.PaymentStatus)}
		}
		updates["payment_status"] = *update.PaymentStatus
	}
	if update.TrackingNumber != nil {
		updates["tracking_number"] = *update.TrackingNumber
	}
	if update.CourierName != nil {
		updates["courier_name"] = *update.CourierName
	}
	if update.AdminNote != nil {
		updates["admin_note"] = *update.AdminNote
	}

	if len(updates) == 0 {
		return order, nil
	}

	if err := db.Model(order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update order %d: %w", orderID, err)
	}

	return loadOrder(db, orderID)
}

// TrackedItem is the limited line-item view exposed to shoppers
type TrackedItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Size        *int            `json:"size"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

// TrackedOrder is the limited order view returned by the public tracking
// endpoint. It carries no customer or address details.
type TrackedOrder struct {
	ID             uint            `json:"id"`
	Status         string          `json:"status"`
	TrackingNumber *string         `json:"tracking_number"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentStatus  string          `json:"payment_status"`
	CreatedAt      string          `json:"created_at"`
	Items          []TrackedItem   `json:"items"`
}

// TrackOrder returns the limited status view for a shopper who knows both
// the order id and the phone number on file. A phone mismatch reports not
// found rather than revealing the order exists.
func TrackOrder(db *gorm.DB, orderID uint, phone string) (*TrackedOrder, error) {
	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}

	if order.User.Phone != strings.TrimSpace(phone) {
		return nil, ErrOrderNotFound
	}

	tracked := &TrackedOrder{
		ID:             order.ID,
		Status:         order.Status,
		TrackingNumber: order.TrackingNumber,
		TotalAmount:    order.TotalAmount,
		PaymentStatus:  order.PaymentStatus,
		CreatedAt:      order.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range order.Items {
		image := ""
		if len(item.Product.Images) > 0 {
			image = item.Product.Images[0]
		}
		tracked.Items = append(tracked.Items, TrackedItem{
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Price:       item.Price,
			Image:       image,
		})
	}

	return tracked, nil
}
