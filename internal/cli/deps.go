package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/halverson/walletsync/internal/cache"
	"github.com/halverson/walletsync/internal/chain"
	"github.com/halverson/walletsync/internal/provider"
	"github.com/halverson/walletsync/internal/provider/remote"
	"github.com/halverson/walletsync/internal/rpc"
	"github.com/halverson/walletsync/internal/session"
	"github.com/halverson/walletsync/internal/wallet"
)

// cacheFileName is the last-known state cache under the home directory.
const cacheFileName = "cache.json"

// commandDeps bundles the wired dependencies a wallet command needs.
type commandDeps struct {
	Provider provider.Provider
	Reader   *rpc.Failover
	Store    *wallet.Store
	Bridge   *wallet.Bridge
	Flag     *session.FlagStore
	Scratch  *session.Scratch
	Cache    *cache.FileStorage
}

// close releases the provider connection and RPC clients.
func (d *commandDeps) close() {
	if d.Bridge != nil {
		d.Bridge.Close()
	}
	if d.Provider != nil {
		_ = d.Provider.Close()
	}
	if d.Reader != nil {
		d.Reader.Close()
	}
}

// buildDeps wires the provider, chain reader, session stores, and
// wallet store from the loaded configuration. When the wallet agent is
// unreachable the provider stays nil and the store reports the missing
// provider on use; commands that only read local state keep working.
func buildDeps(ctx context.Context) (*commandDeps, error) {
	home := expandHome(cfg.Home)

	limiter := chain.DefaultRateLimiter()
	if cfg.Network.RateLimitRPS > 0 {
		limiter = chain.NewRateLimiter(cfg.Network.RateLimitRPS, 1)
	}

	urls := append([]string{cfg.Network.RPC}, cfg.Network.FallbackRPCs...)
	reader, err := rpc.NewFailover(urls, &rpc.FailoverOptions{
		Limiter: limiter,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	var prov provider.Provider
	if client, dialErr := remote.Dial(ctx, cfg.Provider.URL, &remote.Options{Limiter: limiter}); dialErr == nil {
		prov = client
	} else {
		logger.Debug("wallet agent unreachable at %s: %v", cfg.Provider.URL, dialErr)
	}

	flag := session.NewFlagStore(home)
	scratch := session.NewScratch(home)

	store := wallet.NewStore(wallet.StoreOptions{
		Provider: prov,
		Reader:   reader,
		Flag:     flag,
		Scratch:  scratch,
		Logger:   logger,
	})

	deps := &commandDeps{
		Provider: prov,
		Reader:   reader,
		Store:    store,
		Flag:     flag,
		Scratch:  scratch,
		Cache:    cache.NewFileStorage(filepath.Join(home, cacheFileName)),
	}

	if prov != nil {
		deps.Bridge = wallet.NewBridge(wallet.BridgeOptions{
			Store:        store,
			Provider:     prov,
			Logger:       logger,
			EventTimeout: eventTimeout(),
		})
	}

	return deps, nil
}

// resume restores the previous session silently when enabled.
func (d *commandDeps) resume(ctx context.Context) {
	if cfg.IsResumeEnabled() {
		_ = d.Store.Resume(ctx)
	}
}

// recordSnapshot caches a connected state for later offline display.
// Cache failures are logged, never surfaced.
func (d *commandDeps) recordSnapshot(state wallet.State) {
	if !state.Connected || d.Cache == nil {
		return
	}

	c, err := d.Cache.Load()
	if err != nil {
		logger.Debug("loading state cache: %v", err)
	}
	c.Set(cache.Entry{
		ChainID: state.ChainID,
		Address: state.Address,
		Balance: state.Balance,
	})
	if err := d.Cache.Save(c); err != nil {
		logger.Debug("saving state cache: %v", err)
	}
}

// lastKnown returns the most recent cached snapshot, if any.
func (d *commandDeps) lastKnown() (*cache.Entry, bool) {
	if d.Cache == nil {
		return nil, false
	}

	c, err := d.Cache.Load()
	if err != nil {
		logger.Debug("loading state cache: %v", err)
		return nil, false
	}
	return c.Latest()
}

// clearSnapshots drops the cached state alongside a disconnect.
func (d *commandDeps) clearSnapshots() {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Delete(); err != nil {
		logger.Debug("removing state cache: %v", err)
	}
}

// expandHome expands a leading ~/ to the user home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
