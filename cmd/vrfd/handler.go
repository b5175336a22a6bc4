package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/keylattice/vrfkit/crypto/suites"
	"github.com/keylattice/vrfkit/crypto/vrf"
	"github.com/keylattice/vrfkit/db"
)

var (
	errUnknownKey    = errors.New("no such key")
	errUnknownType   = errors.New("unrecognized algorithm type")
	errProofRejected = errors.New("generated proof failed self-verification")
)

type Handler struct {
	config *Config
	keys   map[string]vrf.SecretKey
	tx     db.KeyStore
	ch     chan<- db.ProofRecord
}

// HandleAPI wraps an API endpoint with request counting and uniform error
// reporting.
func HandleAPI(fn func(req *http.Request) (interface{}, error)) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		res, err := fn(req)
		if err != nil {
			requestCtr.WithLabelValues(req.URL.Path, "error").Inc()
			rw.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(rw).Encode(map[string]string{"error": err.Error()})
			return
		}
		requestCtr.WithLabelValues(req.URL.Path, "ok").Inc()
		rw.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(rw).Encode(res); err != nil {
			log.Println(err)
		}
	}
}

// Home redirects requests to a pre-configured URL, like the API
// documentation.
func (h *Handler) Home(rw http.ResponseWriter, req *http.Request) {
	if h.config.HomeRedirect == "" {
		http.NotFound(rw, req)
		return
	}
	http.Redirect(rw, req, h.config.HomeRedirect, http.StatusSeeOther)
}

type MetaKey struct {
	Name      string `json:"name"`
	Algorithm string `json:"algorithm"`
	PublicKey []byte `json:"public_key"`
}

type MetaResponse struct {
	Algorithms []string  `json:"algorithms"`
	Keys       []MetaKey `json:"keys"`
}

func (h *Handler) Meta(req *http.Request) (interface{}, error) {
	res := MetaResponse{}
	for _, t := range vrf.Types {
		res.Algorithms = append(res.Algorithms, string(t))
	}
	for _, kc := range h.config.Keys {
		pub, err := kc.secretKey.PublicKey()
		if err != nil {
			return nil, err
		}
		raw, err := pub.Bytes()
		if err != nil {
			return nil, err
		}
		res.Keys = append(res.Keys, MetaKey{
			Name:      kc.Name,
			Algorithm: string(kc.secretKey.Type()),
			PublicKey: raw,
		})
	}
	return res, nil
}

type KeysResponse struct {
	Keys []db.KeyRecord `json:"keys"`
}

func (h *Handler) Keys(req *http.Request) (interface{}, error) {
	names, err := h.tx.ListKeys()
	if err != nil {
		return nil, err
	}
	res := KeysResponse{Keys: []db.KeyRecord{}}
	for _, name := range names {
		rec, err := h.tx.GetKey(name)
		if err != nil {
			return nil, err
		} else if rec != nil {
			res.Keys = append(res.Keys, *rec)
		}
	}
	return res, nil
}

type ProveRequest struct {
	Input []byte `json:"input"`
}

type ProveResponse struct {
	Proof []byte `json:"proof"`
	Value []byte `json:"value"`
}

func (h *Handler) Prove(req *http.Request) (interface{}, error) {
	key, ok := h.keys[mux.Vars(req)["key"]]
	if !ok {
		return nil, errUnknownKey
	}
	var body ProveRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return nil, err
	}

	start := time.Now()
	proof, err := key.Prove(body.Input)
	proveOps.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
	if err != nil {
		return nil, err
	}
	proveDur.Observe(time.Since(start).Seconds())

	raw, err := proof.Bytes()
	if err != nil {
		return nil, err
	}
	pub, err := key.PublicKey()
	if err != nil {
		return nil, err
	}
	ok, value := pub.Verify(body.Input, proof)
	if !ok {
		return nil, errProofRejected
	}

	h.ch <- db.ProofRecord{
		Key:       mux.Vars(req)["key"],
		InputHash: inputDigest(key.Type(), body.Input),
		Proof:     raw,
		Output:    value,
		CreatedAt: time.Now().Unix(),
	}
	return ProveResponse{Proof: raw, Value: value}, nil
}

type VerifyRequest struct {
	PublicKey []byte `json:"public_key"`
	Input     []byte `json:"input"`
	Proof     []byte `json:"proof"`
}

type VerifyResponse struct {
	Valid bool   `json:"valid"`
	Value []byte `json:"value,omitempty"`
}

func (h *Handler) Verify(req *http.Request) (interface{}, error) {
	t := vrf.ParseType(mux.Vars(req)["type"])
	if t == vrf.TypeUnknown {
		return nil, errUnknownType
	}
	var body VerifyRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return nil, err
	}

	// Malformed keys and proofs are verification failures, not API errors.
	pub, err := suites.PublicKeyFromBytes(t, body.PublicKey)
	if err != nil {
		verifyOps.WithLabelValues("false").Inc()
		return VerifyResponse{Valid: false}, nil
	}
	proof, err := suites.ProofFromBytes(t, body.Proof)
	if err != nil {
		verifyOps.WithLabelValues("false").Inc()
		return VerifyResponse{Valid: false}, nil
	}

	valid, value := pub.Verify(body.Input, proof)
	verifyOps.WithLabelValues(strconv.FormatBool(valid)).Inc()
	return VerifyResponse{Valid: valid, Value: value}, nil
}

func inputDigest(t vrf.Type, input []byte) []byte {
	params, ok := vrf.ParamsFor(t)
	if !ok {
		return nil
	}
	d := params.Hash.New()
	d.Write(input)
	return d.Sum(nil)
}
