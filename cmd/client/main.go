// cmd/client/main.go
// Entry point: wires configuration, storage, the backend gateway, the
// session engine, both pollers, and the screen router, then drives them
// from a small terminal command loop.

package main

import (
	"bufio"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/meeteat/meeteat-client/internal/api"
	"github.com/meeteat/meeteat-client/internal/config"
	"github.com/meeteat/meeteat-client/internal/geo"
	"github.com/meeteat/meeteat-client/internal/identity"
	"github.com/meeteat/meeteat-client/internal/invites"
	"github.com/meeteat/meeteat-client/internal/metrics"
	"github.com/meeteat/meeteat-client/internal/nearby"
	"github.com/meeteat/meeteat-client/internal/notification"
	"github.com/meeteat/meeteat-client/internal/places"
	"github.com/meeteat/meeteat-client/internal/poll"
	"github.com/meeteat/meeteat-client/internal/profile"
	"github.com/meeteat/meeteat-client/internal/reviews"
	"github.com/meeteat/meeteat-client/internal/screens"
	"github.com/meeteat/meeteat-client/internal/session"
	"github.com/meeteat/meeteat-client/internal/storage"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("Starting meeteat client")

	// 1. Environment
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file (%v), using environment variables", err)
	}

	// 2. Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("configuration validation failed: ", err)
	}

	// 3. Local storage
	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		log.Fatal("failed to open local store: ", err)
	}
	defer store.Close()

	// 4. Backend gateway and services
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	resolver := identity.NewResolver(client, store, envPlatform{})
	term := newTerminal()

	fetcher := nearby.NewFetcher(client, term, cfg.NearbyRadiusKm)
	source := geo.Static{Pos: geo.Position{Lat: cfg.StaticLat, Lon: cfg.StaticLon}}

	engine := session.NewEngine(session.Config{
		DelayMin:        cfg.SearchDelayMin,
		DelayMax:        cfg.SearchDelayMax,
		GeoTimeout:      cfg.GeoTimeout,
		GeoRefreshAge:   cfg.GeoRefreshAge,
		RefreshInterval: cfg.RefreshInterval,
		CountdownTick:   cfg.CountdownTick,
	}, client, resolver, source, term, fetcher)

	inviteSvc := invites.NewService(client, resolver)
	notifSvc := notification.NewService(client, resolver)
	reviewSvc := reviews.NewService(client)
	placeSvc := places.NewService(client)
	profileSvc := profile.NewService(client, store)

	// 5. Screen router
	history := &historyStack{}
	router := screens.NewRouter(screens.NewHTTPFetcher(client), term, history, cfg.HomeScreen)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router.Register(cfg.HomeScreen, func(ctx context.Context) {
		go screens.RotateHero(ctx, term, 0)
	})

	// 6. Pollers
	invitePoller := invites.NewPoller(inviteSvc, term, poll.Always{}, cfg.InvitePollInterval, cfg.ShowOnlyFirstInvite)
	notifPoller := notification.NewPoller(notifSvc, term, poll.Always{}, cfg.NotifPollInterval)
	go invitePoller.Start(ctx)
	go notifPoller.Start(ctx)
	defer invitePoller.Stop()
	defer notifPoller.Stop()

	// 7. Ops endpoint
	if cfg.EnableMetrics {
		ops := metrics.NewServer(cfg.OpsAddr)
		go func() {
			log.Printf("ops endpoint on %s", cfg.OpsAddr)
			if err := ops.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("ops endpoint failed: %v", err)
			}
		}()
		defer ops.Close()
	}

	// 8. Initial navigation and session resume
	if err := router.Load(ctx, os.Getenv("START_SCREEN")); err != nil {
		log.Printf("initial screen load failed: %v", err)
	}
	if err := engine.Resume(ctx); err != nil {
		log.Printf("no session to resume: %v", err)
	}

	go commandLoop(ctx, engine, router, history, inviteSvc, notifSvc, reviewSvc, placeSvc, profileSvc, resolver, term)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutdown signal received")
	cancel()
	if err := engine.Stop(context.Background()); err != nil {
		log.Printf("session stop failed: %v", err)
	}
	log.Println("client exited")
}

// commandLoop reads commands from stdin until ctx is done or stdin closes.
func commandLoop(
	ctx context.Context,
	engine *session.Engine,
	router *screens.Router,
	history *historyStack,
	inviteSvc *invites.Service,
	notifSvc *notification.Service,
	reviewSvc *reviews.Service,
	placeSvc *places.Service,
	profileSvc *profile.Service,
	resolver *identity.Resolver,
	term *terminal,
) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "start":
			if err := engine.Start(ctx); err != nil {
				term.printf("start failed (%s): %v", geo.Classify(err), err)
			}
		case "stop":
			if err := engine.Stop(ctx); err != nil {
				term.printf("stop failed: %v", err)
			}
		case "fg":
			engine.HandleForeground(ctx)
		case "screen":
			if len(fields) > 1 {
				router.Load(ctx, fields[1])
			}
		case "back":
			if prev, ok := history.Pop(); ok {
				router.Back(ctx, prev)
			}
		case "invite":
			handleInvite(ctx, fields[1:], inviteSvc, placeSvc, term)
		case "respond":
			handleRespond(ctx, fields[1:], inviteSvc, term)
		case "survey":
			handleSurvey(ctx, fields[1:], notifSvc, term)
		case "react":
			handleReact(ctx, fields[1:], reviewSvc, resolver, term)
		case "tags":
			handleTags(ctx, fields[1:], profileSvc, resolver, term)
		case "profile":
			handleProfile(ctx, fields[1:], profileSvc, resolver, term)
		case "quit", "exit":
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(syscall.SIGTERM)
			return
		default:
			term.printf("commands: start stop fg screen back invite respond survey react tags profile quit")
		}
	}
}

func handleInvite(ctx context.Context, args []string, svc *invites.Service, placeSvc *places.Service, term *terminal) {
	if len(args) < 1 {
		term.printf("usage: invite <tg_id> [meal] [place_id]")
		return
	}
	toTg, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		term.printf("bad tg_id: %v", err)
		return
	}

	draft := invites.Compose{ToTgID: toTg, MealType: invites.MealLunch}
	if len(args) > 1 {
		draft.MealType = args[1]
	}
	if len(args) > 2 {
		placeID, err := strconv.ParseInt(args[2], 10, 64)
		if err == nil {
			draft.PlaceID = &placeID
			if all, err := placeSvc.List(ctx, 0); err == nil {
				for _, p := range all {
					if p.ID == placeID {
						draft.PlaceName = p.Name
						break
					}
				}
			}
		}
	}

	id, err := svc.Send(ctx, draft)
	if err != nil {
		term.printf("invite failed: %v", err)
		return
	}
	term.printf("invite %d sent", id)
}

func handleRespond(ctx context.Context, args []string, svc *invites.Service, term *terminal) {
	if len(args) < 2 {
		term.printf("usage: respond <invite_id> accept|decline")
		return
	}
	inviteID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		term.printf("bad invite id: %v", err)
		return
	}
	if err := svc.Respond(ctx, inviteID, args[1]); err != nil {
		term.printf("respond failed: %v", err)
		return
	}
	term.printf("invite %d: %s", inviteID, args[1])
}

func handleSurvey(ctx context.Context, args []string, svc *notification.Service, term *terminal) {
	if len(args) < 2 {
		term.printf("usage: survey <invite_id> yes|no")
		return
	}
	inviteID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		term.printf("bad invite id: %v", err)
		return
	}
	if err := svc.RespondSurvey(ctx, inviteID, args[1]); err != nil {
		term.printf("survey failed: %v", err)
		return
	}
	term.printf("survey answered: %s", args[1])
}

func handleReact(ctx context.Context, args []string, svc *reviews.Service, resolver *identity.Resolver, term *terminal) {
	if len(args) < 2 {
		term.printf("usage: react <tg_id> <эмодзи>")
		return
	}
	targetTg, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		term.printf("bad tg_id: %v", err)
		return
	}
	myTg, ok := resolver.TgID()
	if !ok {
		term.printf("no identity yet")
		return
	}

	state, err := svc.For(ctx, targetTg, myTg)
	if err != nil {
		term.printf("reviews fetch failed: %v", err)
		return
	}
	widget := reviews.NewWidget(svc, myTg, targetTg, state)
	if err := widget.Toggle(ctx, args[1]); err != nil {
		term.printf("toggle failed: %v", err)
		return
	}
	term.printf("%s: %d (selected=%v)", args[1], widget.Count(args[1]), widget.Selected(args[1]))
}

func handleTags(ctx context.Context, args []string, svc *profile.Service, resolver *identity.Resolver, term *terminal) {
	tgID, ok := resolver.TgID()
	if !ok {
		term.printf("no identity yet")
		return
	}

	if len(args) == 0 {
		tags, err := svc.Tags(ctx, tgID)
		if err != nil {
			term.printf("tags fetch failed: %v", err)
			return
		}
		term.printf("tags: %s", strings.Join(tags, ", "))
		return
	}
	if err := svc.SaveTags(ctx, tgID, args); err != nil {
		term.printf("tags save failed: %v", err)
		return
	}
	term.printf("tags saved")
}

func handleProfile(ctx context.Context, args []string, svc *profile.Service, resolver *identity.Resolver, term *terminal) {
	tgID, ok := resolver.TgID()
	if !ok {
		term.printf("no identity yet")
		return
	}
	if len(args) > 0 {
		other, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			term.printf("bad tg_id: %v", err)
			return
		}
		svc.ViewUser(other)
		tgID = other
	}

	p, err := svc.Get(ctx, tgID)
	if err != nil {
		term.printf("profile fetch failed: %v", err)
		return
	}
	term.printf("%s (@%s), встреч: %d, теги: %s",
		p.User.Name, p.User.Username, p.MatchCount, strings.Join(p.Tags, ", "))
}
