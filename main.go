package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ig-oembed/internal/graph"
	"ig-oembed/internal/logger"
	"ig-oembed/internal/oembed"
	"ig-oembed/internal/report"
)

const graphVersionDefault = "v24.0"

const (
	envAppID       = "APP_ID"
	envAppSecret   = "APP_SECRET"
	envClientToken = "CLIENT_TOKEN"
)

var log = logrus.New()

var (
	flagPostURL        = flag.String("post-url", "", "public Instagram post URL (required)")
	flagGraphVersion   = flag.String("graph-version", graphVersionDefault, "Graph API version e.g. v24.0")
	flagUseClientToken = flag.Bool("use-client-token", false, "authenticate as APP_ID|CLIENT_TOKEN (needs CLIENT_TOKEN env var)")
	flagOmitScript     = flag.Bool("omit-script", true, "omitscript=true (default)")
	flagMaxWidth       = flag.Int("maxwidth", 0, "maxwidth (optional)")
	flagDumpHTTP       = flag.Bool("dump-http", false, "dumps http headers")
	flagVerbose        = flag.Bool("verbose", false, "debug logging")
)

func main() {
	flag.Parse()
	if *flagVerbose {
		log.Level = logrus.DebugLevel
	}

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using process environment")
	}

	if *flagPostURL == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: -post-url")
		flag.Usage()
		os.Exit(2)
	}

	ctx, ctxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer ctxCancel()
	ctx = logger.WithLogEntry(ctx, logrus.NewEntry(log))

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	appID, err := getenvRequired(envAppID)
	if err != nil {
		return err
	}

	client, err := graph.NewClient(graph.WithDumpHTTP(*flagDumpHTTP))
	if err != nil {
		return err
	}

	var token, tag string
	if *flagUseClientToken {
		clientToken, err := getenvRequired(envClientToken)
		if err != nil {
			return err
		}
		token = graph.ComposeClientToken(appID, clientToken)
		tag = "APP_ID|CLIENT_TOKEN"
	} else {
		appSecret, err := getenvRequired(envAppSecret)
		if err != nil {
			return err
		}
		token, err = client.AppAccessToken(ctx, appID, appSecret, *flagGraphVersion)
		if err != nil {
			return errors.Wrap(err, "failed to get app access token")
		}
		tag = "APP_ACCESS_TOKEN"
	}

	result, err := oembed.Fetch(ctx, client, oembed.Request{
		PostURL:      *flagPostURL,
		AccessToken:  token,
		GraphVersion: *flagGraphVersion,
		OmitScript:   *flagOmitScript,
		MaxWidth:     *flagMaxWidth,
	})
	if err != nil {
		return err
	}

	report.Print(os.Stdout, tag, result)
	return nil
}

func getenvRequired(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", errors.Errorf("missing env var: %s", name)
	}
	return v, nil
}
