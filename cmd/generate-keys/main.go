// Command generate-keys outputs fresh cryptographic keys.
package main

import (
	"crypto/x509"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/keylattice/vrfkit/crypto/suites"
	"github.com/keylattice/vrfkit/crypto/vrf"
	"github.com/keylattice/vrfkit/crypto/vrf/ecvrf"
	"github.com/keylattice/vrfkit/crypto/vrf/rsavrf"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	flag.Parse()
	t := vrf.ParseType(flag.Arg(0))
	if t == vrf.TypeUnknown {
		names := make([]string, 0, len(vrf.Types))
		for _, typ := range vrf.Types {
			names = append(names, string(typ))
		}
		log.Fatalf("Usage: generate-keys (%v)", strings.Join(names, "|"))
	}

	priv, err := suites.Create(t)
	if err != nil {
		log.Fatal(err)
	}

	var secret []byte
	switch key := priv.(type) {
	case *rsavrf.SecretKey:
		secret, err = x509.MarshalPKCS8PrivateKey(key.Key())
		if err != nil {
			log.Fatal(err)
		}
	case *ecvrf.SecretKey:
		secret = key.Scalar()
	default:
		log.Fatalf("Unexpected key type: %T", priv)
	}
	fmt.Printf("VRF Secret Key: %x\n", secret)

	pub, err := priv.PublicKey()
	if err != nil {
		log.Fatal(err)
	}
	raw, err := pub.Bytes()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("VRF Public Key: %x\n", raw)
}
