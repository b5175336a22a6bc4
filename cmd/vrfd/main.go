// Command vrfd is a small service that computes VRF proofs with a set of
// configured keys and verifies proofs submitted by clients.
package main

import (
	"flag"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"

	"github.com/keylattice/vrfkit/crypto/vrf"
	"github.com/keylattice/vrfkit/db"
)

var (
	Version   = "dev"
	GoVersion = runtime.Version()
)

var (
	configFile = flag.String("config", "", "Location of config file.")
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.LUTC)
	flag.Parse()

	// Load config from disk.
	if *configFile == "" {
		log.Fatalf("No config file provided, see --help.")
	}
	config, err := ReadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	// Record the configured keys' public halves and start the auditor
	// thread.
	tx, err := db.NewLDBKeyStore(config.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	keys := make(map[string]vrf.SecretKey)
	for _, kc := range config.Keys {
		pub, err := kc.secretKey.PublicKey()
		if err != nil {
			log.Fatalf("Failed to derive public key for %q: %v", kc.Name, err)
		}
		raw, err := pub.Bytes()
		if err != nil {
			log.Fatalf("Failed to serialize public key for %q: %v", kc.Name, err)
		}
		err = tx.PutKey(&db.KeyRecord{
			Name:      kc.Name,
			Type:      string(kc.secretKey.Type()),
			PublicKey: raw,
			CreatedAt: time.Now().Unix(),
		})
		if err != nil {
			log.Fatalf("Failed to store public key for %q: %v", kc.Name, err)
		}
		keys[kc.Name] = kc.secretKey
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit public keys: %v", err)
	}
	ch := make(chan db.ProofRecord)

	go auditor(tx, ch)

	// Setup handler for the API server.
	h := &Handler{config: config, keys: keys, tx: tx.Clone(), ch: ch}
	r := mux.NewRouter()
	r.HandleFunc("/", h.Home)
	r.HandleFunc("/v1/meta", HandleAPI(h.Meta))
	r.HandleFunc("/v1/keys", HandleAPI(h.Keys))
	r.HandleFunc("/v1/prove/{key}", HandleAPI(h.Prove)).Methods(http.MethodPost)
	r.HandleFunc("/v1/verify/{type}", HandleAPI(h.Verify)).Methods(http.MethodPost)

	// Setup the API server.
	srv := &http.Server{
		Addr:      config.ServerAddr,
		Handler:   r,
		TLSConfig: config.tlsConfig,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if config.MetricsAddr != "" {
		go metrics(config.MetricsAddr)
	}

	log.Printf("Starting API server at: %v", config.ServerAddr)
	if config.tlsConfig != nil {
		log.Fatal(srv.ListenAndServeTLS("", ""))
	} else {
		log.Fatal(srv.ListenAndServe())
	}
}
