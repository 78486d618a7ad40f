package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-store/pkg/auth"
	"github.com/matst80/slask-store/pkg/cart"
	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/checkout"
	"github.com/matst80/slask-store/pkg/common"
	"github.com/matst80/slask-store/pkg/messaging"
	"github.com/matst80/slask-store/pkg/server"
	"github.com/matst80/slask-store/pkg/storage"
	"github.com/matst80/slask-store/pkg/tracking"
	"github.com/matst80/slask-store/pkg/types"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var rabbitUrl = os.Getenv("RABBIT_URL")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var country = os.Getenv("COUNTRY")
var dataDir = os.Getenv("DATA_DIR")
var tokenSecret = os.Getenv("TOKEN_SECRET")
var listenAddress = ":8080"
var debugAddress = ":8081"

const defaultShippingFee = 1500

func shippingFee() int {
	if v := os.Getenv("SHIPPING_FEE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return defaultShippingFee
}

func main() {
	flag.Parse()

	if dataDir == "" {
		dataDir = "data"
	}
	if tokenSecret == "" {
		log.Fatalf("No token secret provided")
	}

	idx := catalog.NewIndex()
	db := storage.NewDiskStorage(dataDir)
	if err := db.LoadCatalog(idx); err != nil {
		log.Printf("Failed to load catalog: %v", err)
	} else {
		log.Printf("Catalog loaded, %d products", idx.Len())
	}

	var trk types.Tracking
	var events *amqp.Connection
	if rabbitUrl != "" {
		t, err := tracking.NewRabbitTracking(rabbitUrl, country)
		if err != nil {
			log.Fatalf("Failed to create rabbit tracking: %v", err)
		}
		trk = t
		events, err = amqp.Dial(rabbitUrl)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		ch, err := events.Channel()
		if err != nil {
			log.Fatalf("Failed to open channel: %v", err)
		}
		if err := messaging.DefineTopic(ch, "global", messaging.OrderCreated); err != nil {
			log.Fatalf("Failed to declare order topic: %v", err)
		}
		ch.Close()
	}

	var cartStorage cart.Storage
	var cartIds cart.IdStorage
	var cache *server.Cache
	if redisUrl != "" {
		redisCarts := cart.NewRedisStorage(redisUrl, redisPassword, 0)
		cartStorage = redisCarts
		cartIds = redisCarts
		cache = server.NewCache(redisUrl, redisPassword, 0)
		log.Printf("Using redis cart storage, url: %s", redisUrl)
	} else {
		diskCarts := cart.NewDiskStorage(filepath.Join(dataDir, "carts"))
		cartStorage = diskCarts
		cartIds = diskCarts
		log.Println("Using disk cart storage")
	}

	google, err := auth.NewGoogleAuth()
	if err != nil {
		log.Printf("Google sign in disabled: %v", err)
	}
	users := auth.NewUserStore(dataDir)
	authServer := auth.NewServer(users, []byte(tokenSecret), google)

	cartServer := &cart.Server{
		Storage:   cartStorage,
		IdHandler: cartIds,
		Catalog:   idx,
		Tracking:  trk,
	}
	checkoutServer := &checkout.Server{
		Orders:      checkout.NewDiskOrderStorage(filepath.Join(dataDir, "orders")),
		Carts:       cartStorage,
		Auth:        authServer,
		Tracking:    trk,
		ShippingFee: shippingFee(),
		Events:      events,
	}
	srv := &server.WebServer{
		Catalog:  idx,
		Cart:     cartServer,
		Checkout: checkoutServer,
		Auth:     authServer,
		Cache:    cache,
		Tracking: trk,
	}

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("Profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", srv.ClientHandler()))

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	apiServer := common.NewServerWithTimeouts(&http.Server{
		Addr:    listenAddress,
		Handler: mux,
	}, timeouts)

	common.RunServerWithShutdown(apiServer, "api server", timeouts.Shutdown, timeouts.Hook,
		func(ctx context.Context) error {
			if trk != nil {
				return trk.Close()
			}
			return nil
		},
		func(ctx context.Context) error {
			if events != nil {
				return events.Close()
			}
			return nil
		},
		func(ctx context.Context) error {
			if cache != nil {
				return cache.Close()
			}
			return nil
		},
	)
}
