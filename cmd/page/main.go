// Command page runs a headless storefront page and drives it from stdin.
//
// Usage:
//
//	page -html templates/account.html -path /account < commands.txt
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/fondantshop/pkg/checkout"
	"github.com/example/fondantshop/pkg/config"
	"github.com/example/fondantshop/pkg/di"
	"github.com/example/fondantshop/pkg/discovery"
	"github.com/example/fondantshop/pkg/dom"
	"github.com/example/fondantshop/pkg/orders"
	"github.com/example/fondantshop/pkg/page"
	"github.com/example/fondantshop/pkg/store"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	htmlPath := flag.String("html", "", "page markup to load")
	path := flag.String("path", "/", "location of the page")
	acceptLogin := flag.Bool("accept-login", false, "answer yes to login prompts")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *htmlPath, *path, *acceptLogin); err != nil {
		logger.Fatal("Page failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, htmlPath, path string, acceptLogin bool) error {
	doc, err := loadDocument(htmlPath)
	if err != nil {
		return err
	}

	var disc discovery.Discoverer
	if len(cfg.Etcd.Endpoints) > 0 {
		sd, err := discovery.NewServiceDiscovery(&cfg.Etcd, logger)
		if err != nil {
			logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else {
			disc = sd
			defer sd.Close()
		}
	}

	storage, err := di.OpenStorage(ctx, cfg, disc, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storage.Close()

	provider, err := di.OpenProvider(ctx, &cfg.Firebase, logger)
	if err != nil {
		return fmt.Errorf("failed to open identity provider: %w", err)
	}

	pageCfg := page.Config{
		Path:     path,
		Document: doc,
		Store:    store.New(storage.Backend, storage.Signal, logger),
		Provider: provider,
		Checkout: checkout.NewClient(&discovery.HTTPResolver{
			Discoverer: disc,
			Service:    cfg.Checkout.Service,
			Fallback:   cfg.Checkout.BaseURL,
			Logger:     logger,
		}, cfg.Checkout.Timeout, logger),
		Prompter:       autoPrompt{accept: acceptLogin, logger: logger},
		Navigate:       func(to string) { fmt.Printf("navigate %s\n", to) },
		RestoreGrace:   cfg.Session.RestoreGrace,
		LogoutRedirect: cfg.Session.LogoutRedirect,
		NotifyDismiss:  cfg.Notify.Dismiss,
		NotifyFade:     cfg.Notify.Fade,
		Logger:         logger,
	}
	if storage.Mongo != nil {
		pageCfg.Audit = orders.NewMongoAudit(storage.Mongo)
	}

	system := actor.NewActorSystem()
	h, err := page.Spawn(system, pageCfg)
	if err != nil {
		return err
	}
	defer h.Stop()

	logger.Info("Page started", zap.String("path", path))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	sh := &shell{page: h, provider: provider, out: os.Stdout}
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := sh.exec(ctx, line); quit {
				return nil
			}
		}
	}
}

func loadDocument(htmlPath string) (*dom.Document, error) {
	if htmlPath == "" {
		return dom.ParseString(blankPage)
	}
	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()
	return dom.Parse(f)
}

const blankPage = `<html><body><nav><div class="nav-links">
<a href="/cart">Cart</a>
<a href="/account">Account</a>
<a href="/login">Login</a>
<a href="/register">Register</a>
</div></nav><div id="order-history-container"></div></body></html>`

type autoPrompt struct {
	accept bool
	logger *zap.Logger
}

func (a autoPrompt) Confirm(ctx context.Context, message string) (bool, error) {
	a.logger.Info("Prompt", zap.String("message", message), zap.Bool("accepted", a.accept))
	return a.accept, nil
}
