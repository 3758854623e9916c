package main // Entry point package

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/rs/zerolog"
    "golang.org/x/sync/errgroup"

    "github.com/iliyamo/venue-booking/internal/approval"
    "github.com/iliyamo/venue-booking/internal/checkout"
    "github.com/iliyamo/venue-booking/internal/config"
    "github.com/iliyamo/venue-booking/internal/database"
    "github.com/iliyamo/venue-booking/internal/handler"
    "github.com/iliyamo/venue-booking/internal/logger"
    "github.com/iliyamo/venue-booking/internal/middleware"
    "github.com/iliyamo/venue-booking/internal/notify"
    "github.com/iliyamo/venue-booking/internal/onboarding"
    "github.com/iliyamo/venue-booking/internal/payment"
    "github.com/iliyamo/venue-booking/internal/pricing"
    "github.com/iliyamo/venue-booking/internal/queue"
    "github.com/iliyamo/venue-booking/internal/repository"
    "github.com/iliyamo/venue-booking/internal/router"
    "github.com/iliyamo/venue-booking/internal/service"
    "github.com/iliyamo/venue-booking/internal/session"
)

func main() {
    cfg := config.Load()
    log := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

    if err := run(cfg, log); err != nil {
        log.Fatal().Err(err).Msg("server stopped")
    }
}

func run(cfg config.Config, log zerolog.Logger) error {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    policy, err := pricing.NewPolicy(cfg.Pricing.FeePolicy, cfg.Pricing.FlatFee, cfg.Pricing.FeeRate, cfg.Pricing.Rounding)
    if err != nil {
        return err
    }
    catalog := pricing.DefaultCatalog()
    if cfg.Pricing.ReferralCodes != "" {
        if catalog, err = pricing.ParseCatalog(cfg.Pricing.ReferralCodes); err != nil {
            return err
        }
    }

    db, err := database.Open(database.Options{User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName})
    if err != nil {
        return err
    }
    defer db.Close()
    if cfg.DBBootstrap {
        if err := database.Bootstrap(ctx, db); err != nil {
            return err
        }
        log.Info().Msg("schema bootstrapped")
    }

    rdb := config.NewRedisClient(cfg.Redis, log)
    if rdb != nil {
        defer rdb.Close()
    }
    sessions := session.New(rdb, cfg.SessionTTL, session.SubmitTTLFor(cfg.Checkout.PaymentTimeout))

    users := repository.NewUserRepo(db, cfg.BcryptCost)
    tokens := repository.NewTokenRepo(db)
    owners := repository.NewOwnerRepo(db)
    venues := repository.NewVenueRepo(db)
    offers := repository.NewOfferRepo(db)
    bookings := repository.NewBookingRepo(db)
    saved := repository.NewSavedVenueRepo(db)
    referrals := repository.NewReferralRepo(db)

    seeded, err := referrals.SeedIfEmpty(ctx, catalog.Referrals())
    if err != nil {
        return err
    }
    if seeded > 0 {
        log.Info().Int("codes", seeded).Msg("referral codes seeded")
    }
    catalog = catalog.WithSource(referrals)
    payments := payment.NewSimulated(cfg.Checkout.PaymentDelay)

    publisher := service.NewPublisher(cfg.AMQPURL, log)

    checkoutSvc := checkout.NewService(checkout.Deps{
        Sessions:       sessions,
        Bookings:       bookings,
        Payments:       payments,
        Events:         publisher,
        Notifier:       publisher,
        Policy:         policy,
        Catalog:        catalog,
        Links:          pricing.LinkBuilder{BaseURL: cfg.Checkout.LinkBaseURL},
        PaymentTimeout: cfg.Checkout.PaymentTimeout,
        Log:            log,
    })
    onboard := onboarding.NewWorkflow(onboarding.Deps{
        Identities:          users,
        Owners:              owners,
        Venues:              venues,
        Drafts:              sessions,
        Notifier:            publisher,
        AdminEmail:          cfg.AdminEmail,
        CompensationTimeout: 10 * time.Second,
        Log:                 log,
    })
    approvals := approval.NewWorkflow(venues, publisher, cfg.AppURL, log)

    authH := handler.NewAuthHandler(cfg, users, tokens)

    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Use(echomw.Recover())
    e.Use(middleware.RequestLogger(log))
    e.Use(middleware.Metrics())

    limit := middleware.RateLimit(cfg.RateLimit, rdb)
    router.RegisterRoutes(e, &handler.HealthHandler{DB: db, Redis: rdb})
    router.RegisterAuth(e, authH, cfg.JWTSecret, limit)
    router.RegisterPublic(e, handler.NewVenueHandler(venues, offers), middleware.ResponseCache(cfg.Cache, rdb))
    router.RegisterSession(e,
        handler.NewSelectionHandler(venues, offers, sessions),
        handler.NewCheckoutHandler(checkoutSvc),
        handler.NewOwnerHandler(authH, onboard, venues, offers, bookings),
        cfg.JWTSecret, cfg.SessionTTL, limit)
    router.RegisterCustomer(e, handler.NewCustomerHandler(bookings, venues, saved, payments), cfg.JWTSecret)
    router.RegisterOwner(e, handler.NewOwnerHandler(authH, onboard, venues, offers, bookings), cfg.JWTSecret)
    router.RegisterAdmin(e, handler.NewAdminHandler(approvals, referrals, bookings), cfg.JWTSecret)

    mailer := notify.NewMailer(notify.SMTPConfig{
        Host:     cfg.SMTP.Host,
        Port:     cfg.SMTP.Port,
        Username: cfg.SMTP.Username,
        Password: cfg.SMTP.Password,
        From:     cfg.SMTP.From,
    }, log)

    g, gctx := errgroup.WithContext(ctx)
    g.Go(func() error {
        addr := ":" + cfg.Port
        log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            return err
        }
        return nil
    })
    g.Go(func() error {
        <-gctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        return e.Shutdown(shutdownCtx)
    })
    g.Go(func() error {
        return queue.NewConsumer(cfg.AMQPURL, queue.NotificationQueue, queue.EmailHandler(mailer), log).Run(gctx)
    })
    g.Go(func() error {
        return queue.NewConsumer(cfg.AMQPURL, queue.BookingQueue, queue.BookingLogHandler(log), log).Run(gctx)
    })
    return g.Wait()
}
