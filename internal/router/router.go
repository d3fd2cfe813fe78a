package router

import (
	"net/http"
	"strings"

	"github.com/autana/helpdesk/api"
	"github.com/autana/helpdesk/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Ticket  *handler.TicketHandler
	Message *handler.MessageHandler
	Admin   *handler.AdminHandler
}

func New(h Handlers, corsOrigins []string) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if len(corsOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = corsOrigins
		cfg.AllowCredentials = true
		cfg.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
		r.Use(cors.New(cfg))
	}

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", h.Auth.Me)
	}

	tickets := r.Group("/tickets")
	{
		tickets.GET("/stats", h.Ticket.Stats)
		tickets.GET("/", h.Ticket.List)
		tickets.POST("/", h.Ticket.Create)
		tickets.GET("/:id", h.Ticket.Get)
		tickets.PATCH("/:id", h.Ticket.Update)
	}

	messages := r.Group("/messages")
	{
		messages.GET("/:ticket_id", h.Message.List)
		messages.POST("/", h.Message.Create)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/dashboard", h.Admin.Dashboard)
		admin.GET("/users", h.Admin.Users)
		admin.GET("/users/:id/tickets", h.Admin.UserTickets)
		admin.POST("/ratings", h.Admin.RateMessage)
	}

	return r
}
