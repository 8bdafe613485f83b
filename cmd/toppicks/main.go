// toppicks 为一个用户计算首页 Top Picks 并以 JSON 输出。
//
//	toppicks --catalog listings.json --profile activity.json --limit 6
//	toppicks --redis.addr 127.0.0.1:6379 --user 42 --pipeline configs/pipeline.yaml
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rushteam/toppicks/config/builders"
	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/engine"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/logger"
	"github.com/rushteam/toppicks/postprocess"
	"github.com/rushteam/toppicks/profile"
	"github.com/rushteam/toppicks/recall"
	"github.com/rushteam/toppicks/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "toppicks:", err)
		os.Exit(1)
	}
}

// output 是命令行的 JSON 输出。
type output struct {
	Picks       []core.Listing `json:"picks"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Explain     []explainItem  `json:"explain,omitempty"`
}

type explainItem struct {
	Key      string             `json:"key"`
	Score    float64            `json:"score"`
	Features map[string]float64 `json:"features,omitempty"`
	Labels   map[string]string  `json:"labels,omitempty"`
}

func run(ctx context.Context, args []string, w io.Writer) error {
	s, err := loadSettings(args)
	if err != nil {
		return err
	}

	log, err := logger.New(s.Log.Level, s.Log.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var kv *store.RedisStore
	if s.Redis.Addr != "" {
		kv, err = store.NewRedisStore(s.Redis.Addr, s.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis %s: %w", s.Redis.Addr, err)
		}
		defer kv.Close()
	}
	// 避免把 nil *RedisStore 装进非 nil 的 core.Store 接口
	var st core.Store
	if kv != nil {
		st = kv
	}

	catalog, err := loadCatalog(ctx, s, st)
	if err != nil {
		return err
	}
	user, err := loadUser(ctx, s, st)
	if err != nil {
		return err
	}

	e, err := newEngine(s, st, log)
	if err != nil {
		return err
	}

	rctx := &core.RecommendContext{
		UserID: s.User,
		Scene:  "home",
		User:   user,
		Limit:  s.Limit,
		Params: map[string]any{
			postprocess.ParamCategory: s.Category,
			postprocess.ParamQuery:    s.Query,
		},
	}
	items, err := e.Run(ctx, rctx, catalog)
	if err != nil {
		return err
	}
	log.Info("ranked",
		zap.String("user", s.User),
		zap.Int("catalog", len(catalog)),
		zap.Int("picks", len(items)),
	)

	out := output{Picks: core.Listings(items)}
	if s.Query != "" {
		out.Suggestions = postprocess.Suggest(catalog, s.Query, postprocess.DefaultSuggestions)
	}
	if s.Explain {
		out.Explain = explain(items)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newEngine(s *settings, st core.Store, log *zap.Logger) (*engine.Engine, error) {
	if s.Pipeline == "" {
		p := &pipeline.Pipeline{Nodes: append(engine.DefaultNodes(), &postprocess.QueryFilter{})}
		return engine.New(engine.WithPipeline(p), engine.WithLogger(log)), nil
	}
	cfg, err := pipeline.LoadFromYAML(s.Pipeline)
	if err != nil {
		return nil, err
	}
	return engine.NewFromConfig(cfg, builders.Deps{Store: st, Logger: log}, engine.WithLogger(log))
}

func loadCatalog(ctx context.Context, s *settings, st core.Store) ([]core.Listing, error) {
	if s.Catalog != "" {
		var listings []core.Listing
		if err := readJSON(s.Catalog, &listings); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		return listings, nil
	}
	src := &recall.StoreCatalog{Store: st, Key: s.CatalogKey, TrendingKey: s.TrendingKey}
	return src.Load(ctx)
}

func loadUser(ctx context.Context, s *settings, st core.Store) (*core.UserActivity, error) {
	if s.Profile != "" {
		var ua core.UserActivity
		if err := readJSON(s.Profile, &ua); err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		return &ua, nil
	}
	if st == nil || s.User == "" {
		return &core.UserActivity{}, nil
	}
	return profile.NewLoader(st, s.ProfilePrefix).Load(ctx, s.User)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func explain(items []*core.Item) []explainItem {
	out := make([]explainItem, 0, len(items))
	for _, it := range items {
		labels := make(map[string]string, len(it.Labels))
		for k, l := range it.Labels {
			labels[k] = l.Value
		}
		out = append(out, explainItem{Key: it.ID, Score: it.Score, Features: it.Features, Labels: labels})
	}
	return out
}
