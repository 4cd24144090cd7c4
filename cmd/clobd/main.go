package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/openclob/clob"
)

type placeOrderRequest struct {
	Side     string `json:"side"`
	Type     string `json:"type"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
}

type server struct {
	book   *clob.GuardedBook
	engine *clob.Engine
	seed   bool
	log    *slog.Logger
}

func (s *server) bookPayload(levels int) fiber.Map {
	bids, asks := s.book.Depth(levels)

	payload := fiber.Map{
		"bids": bids,
		"asks": asks,
	}
	if price, ok := s.book.BestBidPrice(); ok {
		payload["best_bid"] = price
	}
	if price, ok := s.book.BestAskPrice(); ok {
		payload["best_ask"] = price
	}
	if spread, ok := s.book.Spread(); ok {
		payload["spread"] = spread
	}
	return payload
}

func (s *server) getBook(c *fiber.Ctx) error {
	levels, err := strconv.Atoi(c.Query("levels", "10"))
	if err != nil || levels <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "levels must be a positive integer"})
	}
	return c.JSON(s.bookPayload(levels))
}

func (s *server) getSpread(c *fiber.Ctx) error {
	payload := fiber.Map{"spread": nil}
	if spread, ok := s.book.Spread(); ok {
		payload["spread"] = spread
	}
	return c.JSON(payload)
}

func (s *server) getOrder(c *fiber.Ctx) error {
	order := s.book.Get(c.Params("id"))
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(order)
}

func (s *server) placeOrder(c *fiber.Ctx) error {
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var side clob.Side
	switch req.Side {
	case "buy":
		side = clob.Buy
	case "sell":
		side = clob.Sell
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "side must be buy or sell"})
	}

	var order *clob.Order
	var err error

	switch req.Type {
	case "market":
		order, err = clob.NewMarketOrder(side, req.Quantity)
	case "limit", "":
		if req.Price == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": clob.ErrMissingPrice.Error()})
		}
		var price decimal.Decimal
		price, err = decimal.NewFromString(req.Price)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid price"})
		}
		order, err = clob.NewLimitOrder(side, req.Quantity, price)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type must be limit or market"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	trades, err := s.engine.Process(c.UserContext(), order)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.log.Info("order processed",
		"order_id", order.ID,
		"side", order.Side.String(),
		"type", string(order.Type),
		"trades", len(trades))

	return c.JSON(fiber.Map{
		"order":  order,
		"trades": trades,
	})
}

func (s *server) cancelOrder(c *fiber.Ctx) error {
	order, err := s.book.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(fiber.Map{"cancelled": order})
}

func (s *server) reset(c *fiber.Ctx) error {
	s.book.Reset()
	if s.seed {
		if err := clob.SeedSampleBook(s.engine); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(s.bookPayload(10))
}

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	clob.SetLogger(log)

	addr := os.Getenv("CLOB_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	srv := &server{
		book: clob.NewGuardedBook(),
		seed: os.Getenv("CLOB_SEED") != "false",
		log:  log,
	}
	srv.engine = clob.NewEngine(srv.book)

	if srv.seed {
		if err := clob.SeedSampleBook(srv.engine); err != nil {
			log.Error("seeding sample book failed", "error", err)
			os.Exit(1)
		}
	}

	app := fiber.New()
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/book", srv.getBook)
	app.Get("/spread", srv.getSpread)
	app.Get("/orders/:id", srv.getOrder)
	app.Post("/orders", srv.placeOrder)
	app.Delete("/orders/:id", srv.cancelOrder)
	app.Post("/reset", srv.reset)

	log.Info("clobd listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
