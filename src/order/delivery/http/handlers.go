package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cowtrade/cowtrade/src/logger"
	"github.com/cowtrade/cowtrade/src/order/domain"
	"github.com/cowtrade/cowtrade/src/protocol"
)

// Handler binds usecase + logger
type Handler struct {
	service domain.OrderUsecase
	logger  *logger.Logger
}

func NewHandler(s domain.OrderUsecase, l *logger.Logger) *Handler {
	return &Handler{service: s, logger: l}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/create-order", h.CreateOrder)
	r.GET("/orders/:uid", h.GetOrderByUID)
	r.GET("/orders", h.ListOrders)
}

// CreateOrder godoc
//
//	@Summary		Quote or submit a swap order
//	@Description	Without a signature the request is quoted and the canonical order payload is returned for signing. With a signature (and the echoed orderData) the order is submitted to the settlement order book.
//	@Tags			order
//	@Accept			json
//	@Produce		json
//	@Param			x-wallet-address	header		string					true	"Wallet address of the trader"
//	@Param			request				body		CreateOrderRequestBody	true	"Request body"
//	@Success		200	{object}	CreateOrderResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		502	{object}	object{error=string}
//	@Router			/create-order [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	wallet := strings.TrimSpace(c.GetHeader("x-wallet-address"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x-wallet-address header is required"})
		return
	}

	var req CreateOrderRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("CreateOrder bind err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Signature != "" {
		h.submit(c, wallet, &req)
		return
	}
	h.handleQuote(c, wallet, &req)
}

// GetOrderByUID godoc
//
//	@Summary		Get order by uid
//	@Description	Get a persisted order record by its uid
//	@Tags			order
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	OrderRecordResponse
//	@Failure		404	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/orders/{uid} [get]
func (h *Handler) GetOrderByUID(c *gin.Context) {
	ctx := c.Request.Context()

	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uid"})
		return
	}
	rec, err := h.service.GetOrderByUID(ctx, uid)
	if err != nil {
		h.logger.Errorf("GetOrderByUID err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, fromOrderRecord(rec))
}

// ListOrders godoc
//
//	@Summary		List orders for a wallet
//	@Description	List persisted order records for a wallet, newest first
//	@Tags			order
//	@Accept			json
//	@Produce		json
//	@Param			wallet	query		string	true	"Wallet address"
//	@Success		200	{array}		OrderRecordResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()

	wallet := strings.TrimSpace(c.Query("wallet"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet query parameter is required"})
		return
	}
	recs, err := h.service.ListOrdersByWallet(ctx, strings.ToLower(wallet))
	if err != nil {
		h.logger.Errorf("ListOrders err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	out := make([]OrderRecordResponse, 0, len(recs))
	for i := range recs {
		out = append(out, fromOrderRecord(&recs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) handleQuote(c *gin.Context, wallet string, req *CreateOrderRequestBody) {
	ctx := c.Request.Context()

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	q, err := h.service.BuildOrder(ctx, domain.SwapIntent{
		SellToken: req.FromToken,
		BuyToken:  req.ToToken,
		AmountIn:  amount,
		ChainID:   req.ChainID,
		Wallet:    wallet,
	})
	if err != nil {
		h.logger.Errorf("CreateOrder quote err: %v", err)
		c.JSON(quoteStatus(err), gin.H{"error": err.Error()})
		return
	}

	payload := fromOrderPayload(q.Payload)
	c.JSON(http.StatusOK, CreateOrderResponse{
		Success:        true,
		NeedsSignature: true,
		OrderData:      &payload,
		Message:        "Order created, signature required",
		EstimatedOut:   q.AmountOut,
		Route:          q.Route,
	})
}

func (h *Handler) submit(c *gin.Context, wallet string, req *CreateOrderRequestBody) {
	ctx := c.Request.Context()

	if req.OrderData == nil {
		c.JSON(http.StatusBadRequest, CreateOrderResponse{
			Success: false,
			Error:   "Order data required when submitting signature",
		})
		return
	}

	signed := domain.SignedOrder{
		Payload:       req.OrderData.ToDomain(),
		Signature:     req.Signature,
		SigningScheme: protocol.SigningScheme,
		From:          wallet,
	}
	orderID, err := h.service.SubmitOrder(ctx, &signed)
	if err != nil {
		h.logger.Errorf("CreateOrder submit err: %v", err)
		if domain.KindOf(err) == domain.ErrSubmissionRejected {
			c.JSON(http.StatusOK, CreateOrderResponse{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, CreateOrderResponse{
		Success: true,
		Message: "Order submitted successfully",
		OrderID: orderID,
	})
}

func quoteStatus(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrInvalidRequest, domain.ErrUnsupportedChain:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
