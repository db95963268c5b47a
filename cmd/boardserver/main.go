package main

import (
	"context"
	"flag"
	"os"

	"github.com/MosinFAM/comment-threads/config"
	"github.com/MosinFAM/comment-threads/internal/auth"
	"github.com/MosinFAM/comment-threads/internal/db"
	"github.com/MosinFAM/comment-threads/internal/httpapi"
	"github.com/MosinFAM/comment-threads/internal/httpserver"
	"github.com/MosinFAM/comment-threads/internal/logger"
	"github.com/MosinFAM/comment-threads/internal/models"
	"github.com/MosinFAM/comment-threads/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	conf, err := config.NewServer(*env)
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}

	log := logger.New(conf.Log)
	logrus.SetOutput(log.Out)
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(log.Level)
	if log.Level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	var store storage.Storage
	switch conf.Storage.Type {
	case "postgres":
		dbConn, err := db.Connect(conf.Postgres.URL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to DB")
		}
		defer dbConn.Close()

		if err := db.Migrate(dbConn, conf.Postgres.Migrations); err != nil {
			log.WithError(err).Fatal("failed to migrate DB")
		}
		store = storage.NewPostgresStorage(dbConn)
	default:
		store = storage.NewMemoryStorage()
	}

	if conf.Seed.Demo {
		if err := seed(context.Background(), store); err != nil {
			log.WithError(err).Fatal("failed to seed demo data")
		}
	}

	issuer, err := auth.NewIssuer(conf.Auth.Secret, conf.Auth.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("auth")
	}
	if conf.Auth.DevSignIn {
		log.Warn("development sign-in is enabled")
	}

	handler, err := httpapi.New(httpapi.Deps{
		Storage:        store,
		Issuer:         issuer,
		Log:            log,
		RateLimit:      conf.RateLimit,
		TrustedProxies: conf.HTTPServer.TrustedProxies,
		DevSignIn:      conf.Auth.DevSignIn,
	})
	if err != nil {
		log.WithError(err).Fatal("router")
	}

	srv := httpserver.New(conf.HTTPServer, handler, log)
	if err := srv.Run(context.Background()); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

// seed создаёт пост с небольшой веткой: 1 -> {2 -> {4}, 3}
func seed(ctx context.Context, store storage.Storage) error {
	post, err := store.AddPost(ctx, models.NewPost{
		Board:          "news",
		Title:          "Spring festival",
		Content:        "The city spring festival opens this weekend.",
		AuthorID:       "u9",
		AuthorNickname: "editor",
	})
	if err != nil {
		return err
	}

	add := func(parent *int64, author, nick, content string) (*models.Comment, error) {
		return store.AddComment(ctx, models.NewComment{
			PostID:         post.ID,
			ParentID:       parent,
			AuthorID:       author,
			AuthorNickname: nick,
			Content:        content,
		})
	}

	first, err := add(nil, "u1", "kim", "Who is playing on Saturday?")
	if err != nil {
		return err
	}
	second, err := add(&first.ID, "u2", "lee", "The line-up is on the poster.")
	if err != nil {
		return err
	}
	if _, err := add(&first.ID, "u1", "kim", "Thanks!"); err != nil {
		return err
	}
	if _, err := add(&second.ID, "u1", "kim", "Found it."); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"board": post.Board, "post_id": post.ID}).Info("demo data seeded")
	return nil
}
