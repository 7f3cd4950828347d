package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/marcyannick1/roomly-backend-go/internal/config"
	appHTTP "github.com/marcyannick1/roomly-backend-go/internal/handler/http"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/cron"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/database"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/email"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/jwt"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/sse"
	"github.com/marcyannick1/roomly-backend-go/internal/repository/postgresql"
	notificationService "github.com/marcyannick1/roomly-backend-go/internal/service/notification"
	visitService "github.com/marcyannick1/roomly-backend-go/internal/service/visit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	visitRepo := postgresql.NewVisitRepository(db)
	matchRegistry := postgresql.NewMatchRegistry(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.SSEExpiration)
	hub := sse.NewHub()

	var emailService email.EmailService
	if cfg.SMTP.Host != "" {
		emailService, err = email.NewEmailService(cfg.SMTP)
		if err != nil {
			log.Fatal("Failed to initialize email service:", err)
		}
	}

	notifService := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{})
	defer notifService.Stop()

	visitNotifier := notificationService.NewVisitNotifier(notifService, matchRegistry, emailService)
	visitSvc := visitService.NewVisitService(db, visitRepo, matchRegistry, visitNotifier)

	if cfg.Reminder.Enabled {
		reminderJob := visitService.NewReminderJob(visitRepo, notifService, cfg.Reminder.Window)
		scheduler := cron.NewScheduler()
		scheduler.AddJob("visit-reminders", cfg.Reminder.Interval, reminderJob.Run)
		scheduler.Start()
		defer scheduler.Stop()
	}

	visitHandler := appHTTP.NewVisitHandler(visitSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notifService, JWTService, hub)

	router := appHTTP.NewRouter(
		JWTService,
		visitHandler,
		notificationHandler,
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			FrontendURL: cfg.App.FrontendURL,
		},
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
