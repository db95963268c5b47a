package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MosinFAM/comment-threads/config"
	"github.com/MosinFAM/comment-threads/internal/client"
	"github.com/MosinFAM/comment-threads/internal/logger"
	"github.com/MosinFAM/comment-threads/internal/thread"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		env    = flag.String("env", ".env", "dotenv file to load before reading the environment")
		board  = flag.String("board", "news", "board the post belongs to")
		postID = flag.Int64("post", 0, "post id")
	)
	flag.Parse()

	if *postID <= 0 {
		fmt.Fprintln(os.Stderr, "threadview: -post is required")
		flag.Usage()
		os.Exit(2)
	}

	conf, err := config.NewClient(*env)
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.NewWithOutput(conf.Log, os.Stderr)

	session := client.NewStaticSession(conf.API.Token)
	api, err := client.New(conf.API.BaseURL, client.BoardEndpoints(*board), session,
		client.WithTimeout(conf.API.Timeout),
		client.WithLogger(log),
	)
	if err != nil {
		log.WithError(err).Fatal("client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := &repl{out: os.Stdout}
	ctrl := thread.New(*postID, api,
		thread.WithNotifier(thread.NotifierFunc(r.notify)),
		thread.WithNavigator(r),
		thread.WithLogger(log),
	)
	r.ctrl = ctrl

	if err := ctrl.Load(ctx); err != nil {
		os.Exit(1)
	}
	r.show()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for r.prompt(); scanner.Scan(); r.prompt() {
		if r.exec(ctx, scanner.Text()) || ctx.Err() != nil {
			return
		}
	}
}
