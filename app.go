package main

import (
	"context"
	"fmt"
	"log"

	"coinvoyage/internal/bootstrap"
	"coinvoyage/internal/browser"
	"coinvoyage/internal/config"
	"coinvoyage/internal/database"
	"coinvoyage/internal/fingerprint"
	"coinvoyage/internal/modecache"
	"coinvoyage/internal/resolver"
	"coinvoyage/internal/security"
	"coinvoyage/internal/tracking"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	eventHydrated        = "app:hydrated"
	eventBrowserNavigate = "browser:navigate"
	keychainAccount      = "bootstrap_credential"
)

// App struct: ponto central do Wails, conecta todos os services
type App struct {
	ctx context.Context
	rt  config.Runtime

	db       *database.Service
	cache    modecache.Cache
	boot     *bootstrap.Controller
	browser  *browser.Surface
	tracking *tracking.Service

	logSanitizer *security.LogSanitizer

	// emit e window são substituídos nos testes; em produção usam o runtime do Wails
	emit   func(eventName string, data interface{})
	window browser.Window
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{
		rt:           config.Load(),
		logSanitizer: security.NewLogSanitizer(),
	}
}

// Startup is called when the app starts
// Inicializa banco, cache, resolver e dispara o bootstrap fora da thread de UI
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	log.Println("[COINVOYAGE] Starting up...")

	if a.emit == nil {
		a.emit = func(eventName string, data interface{}) {
			runtime.EventsEmit(a.ctx, eventName, data)
		}
	}
	if a.window == nil {
		a.window = &wailsWindow{app: a}
	}

	// 1. Garantir diretórios existem
	if err := config.EnsureDataDirs(); err != nil {
		log.Printf("[COINVOYAGE] Error creating data dirs: %v", err)
	}

	// 2. Services (banco, cache, bootstrap, superfície browser, modo local)
	a.initServices()

	// 3. Bootstrap roda uma única vez, em background
	go a.runBootstrap(ctx)
}

// initServices monta o grafo de dependências a partir de a.rt.
func (a *App) initServices() {
	dbService, err := database.NewService(a.rt.DBPath)
	if err != nil {
		log.Printf("[COINVOYAGE] Error initializing database: %v", err)
	} else {
		a.db = dbService
		log.Println("[COINVOYAGE] Database initialized")
	}

	a.cache = a.selectCache()

	var attribution fingerprint.AttributionSource
	if a.db != nil {
		attribution = fingerprint.NewInstallID(a.db, config.InstallIDKey)
	}
	collector := fingerprint.NewCollector(attribution)

	httpResolver := resolver.NewHTTPResolver(a.rt.ResolverURL, config.PartnerKey, nil)

	a.boot = bootstrap.New(a.cache, httpResolver, collector,
		bootstrap.WithEmitter(a.emitEvent),
		bootstrap.WithGrace(a.rt.AttributionGrace),
		bootstrap.WithSanitizer(a.logSanitizer),
	)
	log.Println("[COINVOYAGE] Bootstrap controller initialized")

	a.browser = browser.NewSurface(a.window, a.emitEvent)

	if a.db != nil {
		a.tracking = tracking.NewService(a.db, a.emitEvent)
		log.Println("[COINVOYAGE] Tracking service initialized")
	}
}

// selectCache escolhe o backend do cache de modo. Sem banco, o SQLite
// não está disponível e a decisão fica só em memória.
func (a *App) selectCache() modecache.Cache {
	switch {
	case a.rt.CacheBackend == config.CacheBackendKeychain:
		log.Println("[CACHE] Using keychain backend")
		return modecache.NewKeychain(config.AppBundleID, keychainAccount)
	case a.db != nil:
		log.Println("[CACHE] Using sqlite backend")
		return modecache.NewSQLite(a.db, config.CacheKeyToken, config.CacheKeyLink)
	default:
		log.Println("[CACHE] Database unavailable - using in-memory backend")
		return modecache.NewMemory()
	}
}

// runBootstrap aguarda a decisão e, em modo browser, abre a superfície.
func (a *App) runBootstrap(ctx context.Context) {
	decision := a.boot.Run(ctx)
	log.Printf("[COINVOYAGE] Bootstrap decided: %s", decision.Mode)

	if decision.Mode != bootstrap.ModeBrowser {
		return
	}
	if err := a.browser.Open(decision.Link); err != nil {
		log.Printf("[COINVOYAGE] Could not open browser surface: %v", err)
	}
}

// DomReady is called when the frontend DOM is ready
func (a *App) DomReady(ctx context.Context) {
	log.Println("[COINVOYAGE] DOM Ready")

	// Emitir evento de hydration para o frontend quando ele estiver pronto
	a.emitHydration()
}

// Shutdown is called when the app is shutting down
func (a *App) Shutdown(ctx context.Context) {
	log.Println("[COINVOYAGE] Shutting down...")

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("[COINVOYAGE] Error closing database: %v", err)
		}
	}
}

func (a *App) emitEvent(eventName string, data interface{}) {
	if a.emit == nil {
		return
	}
	a.emit(eventName, data)
}

// === Hydration ===

// HydrationPayload é o payload enviado ao frontend no DomReady
type HydrationPayload struct {
	Bootstrap bootstrap.Snapshot `json:"bootstrap"`
	Browser   *browser.State     `json:"browser,omitempty"`
	Theme     string             `json:"theme"`
	Version   string             `json:"version"`
}

func (a *App) getHydrationPayload() HydrationPayload {
	payload := HydrationPayload{
		Bootstrap: a.GetBootstrapState(),
		Theme:     "system",
		Version:   config.AppVersion,
	}
	if payload.Bootstrap.Mode == bootstrap.ModeBrowser && a.browser != nil {
		st := a.browser.State()
		payload.Browser = &st
	}
	if a.tracking != nil {
		if theme, err := a.tracking.Theme(); err == nil && theme != "" {
			payload.Theme = theme
		}
	}
	return payload
}

// emitHydration envia o estado inicial para o frontend
func (a *App) emitHydration() {
	a.emitEvent(eventHydrated, a.getHydrationPayload())
	log.Println("[COINVOYAGE] Hydration emitted")
}

// === Bootstrap bindings ===

// GetBootstrapState retorna {mode, link, loading}; loading=true até a decisão sair
func (a *App) GetBootstrapState() bootstrap.Snapshot {
	if a.boot == nil {
		return bootstrap.Snapshot{State: bootstrap.StateInit, Loading: true}
	}
	return a.boot.Snapshot()
}

// ResetBootstrap apaga a credencial salva; o próximo cold start consulta o servidor de novo
func (a *App) ResetBootstrap() error {
	if a.cache == nil {
		return fmt.Errorf("mode cache not initialized")
	}
	a.cache.Clear()
	log.Println("[COINVOYAGE] Bootstrap credential cleared")
	return nil
}

// AppInfo descreve o binário para a tela "Sobre"
type AppInfo struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	BundleID     string `json:"bundleId"`
	CacheBackend string `json:"cacheBackend"`
}

// GetAppInfo retorna nome, versão e backend de cache ativo
func (a *App) GetAppInfo() AppInfo {
	backend := config.CacheBackendSQLite
	switch a.cache.(type) {
	case *modecache.Keychain:
		backend = config.CacheBackendKeychain
	case *modecache.Memory:
		backend = "memory"
	}
	return AppInfo{
		Name:         config.AppName,
		Version:      config.AppVersion,
		BundleID:     config.AppBundleID,
		CacheBackend: backend,
	}
}

// === Browser bindings ===

// BrowserDidStartNavigation é chamado pelo frontend quando o webview começa a navegar
func (a *App) BrowserDidStartNavigation() {
	if a.browser != nil {
		a.browser.DidStartNavigation()
	}
}

// BrowserDidFinishLoad é chamado pelo frontend ao fim de uma carga
func (a *App) BrowserDidFinishLoad() {
	if a.browser != nil {
		a.browser.DidFinishInitialLoad()
	}
}

// BrowserDidFail é chamado pelo frontend quando a navegação falha
func (a *App) BrowserDidFail(reason string) {
	if a.browser != nil {
		a.browser.DidFailNavigation(a.logSanitizer.Sanitize(reason))
	}
}

// GetBrowserState retorna o estado de carregamento do modo browser
func (a *App) GetBrowserState() browser.State {
	if a.browser == nil {
		return browser.State{}
	}
	return a.browser.State()
}

// wailsWindow liga a superfície browser à janela nativa. A página remota é
// hospedada pelo frontend em um frame de tela cheia, então Navigate publica
// o endereço em vez de trocar a origem do webview (que perderia os bindings).
type wailsWindow struct {
	app *App
}

func (w *wailsWindow) Fullscreen() {
	runtime.WindowFullscreen(w.app.ctx)
}

func (w *wailsWindow) Navigate(address string) {
	w.app.emitEvent(eventBrowserNavigate, map[string]string{"address": address})
}
