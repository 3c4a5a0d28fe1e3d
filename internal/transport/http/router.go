package http

import (
	"context"
	"net/http"

	"github.com/fitness-hub/core/internal/application/avatar"
	"github.com/fitness-hub/core/internal/application/chat"
	"github.com/fitness-hub/core/internal/application/otp"
	"github.com/fitness-hub/core/internal/config"
	"github.com/fitness-hub/core/internal/pkg/logger"
	"github.com/fitness-hub/core/internal/transport/http/handler"
	appmiddleware "github.com/fitness-hub/core/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OTPRepo     OTPRepository
	Mailer      Mailer
	Events      EventPublisher // nil disables verification events
	Primary     ChatProvider
	Fallback    ChatProvider
	AvatarStore ObjectStore
	ProfileRepo ProfileRepository
	JWTProvider TokenVerifier // nil rejects authenticated routes
	Logger      *logger.Logger
}

// NewRouter builds and returns the application router. ctx bounds background
// work owned by the router (rate-limiter cleanup).
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(appmiddleware.AccessLog(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"authorization", "x-client-info", "apikey", "content-type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.DenyAll
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	}

	// 5 requests/second, burst of 10, applied to the public OTP and chat endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:          deps.OTPRepo,
		Mailer:         deps.Mailer,
		Events:         deps.Events,
		Logger:         log,
		TTL:            cfg.OTP.TTL,
		ResendCooldown: cfg.OTP.ResendCooldown,
		StrictDelivery: cfg.OTP.StrictDelivery,
		HashCost:       cfg.OTP.HashCost,
	})
	chatSvc := chat.NewService(chat.ServiceDeps{
		Primary:  deps.Primary,
		Fallback: deps.Fallback,
		Logger:   log,
	})
	avatarSvc := avatar.NewService(deps.AvatarStore, deps.ProfileRepo)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc)
	chatH := handler.NewChatHandler(chatSvc, log)
	avatarH := handler.NewAvatarHandler(avatarSvc)

	r.Get("/health-check/{action}", healthH.Ping)

	r.Route("/functions/v1", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/send-otp", otpH.Handle)
		r.With(sensitiveRL.Limit).Post("/fitness-chat", chatH.Stream)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Get("/profile/avatar", avatarH.Current)
			r.Post("/profile/avatar", avatarH.Upload)
		})
	})

	return r
}
