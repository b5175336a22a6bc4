package main

import (
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/keylattice/vrfkit/crypto/vrf"
	"github.com/keylattice/vrfkit/crypto/vrf/ecvrf"
	"github.com/keylattice/vrfkit/crypto/vrf/rsavrf"

	"gopkg.in/yaml.v2"
)

// Config specifies the file format of config files.
type Config struct {
	ServerAddr  string     `yaml:"addr"`
	MetricsAddr string     `yaml:"metrics-addr"`
	Database    string     `yaml:"database"`
	TLSConfig   *TLSConfig `yaml:"tls"`
	tlsConfig   *tls.Config

	HomeRedirect string       `yaml:"home"`
	Keys         []*KeyConfig `yaml:"keys"`
}

// TLSConfig specifies the API server's TLS config. When provided, the server
// also starts requiring a valid client certificate.
type TLSConfig struct {
	Cert     string `yaml:"cert"`
	Key      string `yaml:"key"`
	ClientCA string `yaml:"client-ca"` // CA for validating client certificates.
}

// KeyConfig names one VRF key the server proves with.
type KeyConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	// Secret is the hex-encoded secret key material: PKCS#8 DER for the
	// RSA types, a 32-byte scalar for the EC type.
	Secret string `yaml:"secret"`

	secretKey vrf.SecretKey
}

func parseSecretKey(kc *KeyConfig) (vrf.SecretKey, error) {
	t := vrf.ParseType(kc.Type)
	if t == vrf.TypeUnknown {
		return nil, fmt.Errorf("unrecognized algorithm type: %q", kc.Type)
	}
	raw, err := hex.DecodeString(kc.Secret)
	if err != nil {
		return nil, fmt.Errorf("secret is not valid hex: %v", err)
	}

	if vrf.IsRSAType(t) {
		parsed, err := x509.ParsePKCS8PrivateKey(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing secret key: %v", err)
		}
		rsaPriv, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("secret key is unexpected type")
		}
		return rsavrf.NewSecretKey(t, rsaPriv)
	}
	return ecvrf.NewSecretKey(t, raw)
}

func ReadConfig(filename string) (*Config, error) {
	// Read from file and parse.
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var parsed Config
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	// Check that all required fields are populated.
	if parsed.ServerAddr == "" {
		return nil, fmt.Errorf("field not provided: addr")
	} else if parsed.Database == "" {
		return nil, fmt.Errorf("field not provided: database")
	} else if len(parsed.Keys) == 0 {
		return nil, fmt.Errorf("field not provided: keys")
	}
	seen := make(map[string]struct{})
	for i, kc := range parsed.Keys {
		if kc.Name == "" {
			return nil, fmt.Errorf("field not provided: keys[%d].name", i)
		} else if kc.Secret == "" {
			return nil, fmt.Errorf("field not provided: keys[%d].secret", i)
		} else if _, ok := seen[kc.Name]; ok {
			return nil, fmt.Errorf("duplicate key name: %q", kc.Name)
		}
		seen[kc.Name] = struct{}{}

		key, err := parseSecretKey(kc)
		if err != nil {
			return nil, fmt.Errorf("key %q: %v", kc.Name, err)
		}
		kc.secretKey = key
	}

	// Parse TLS config if necessary.
	if parsed.TLSConfig != nil {
		cert, err := tls.LoadX509KeyPair(parsed.TLSConfig.Cert, parsed.TLSConfig.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS certificate/key: %v", err)
		}

		certPool := x509.NewCertPool()
		caCerts, err := os.ReadFile(parsed.TLSConfig.ClientCA)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS client CA: %v", err)
		} else if ok := certPool.AppendCertsFromPEM(caCerts); !ok {
			return nil, fmt.Errorf("no certificates found in TLS client CA file")
		}

		parsed.tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			ClientAuth:   tls.RequireAndVerifyClientCert,
			ClientCAs:    certPool,
		}
	}

	return &parsed, nil
}
