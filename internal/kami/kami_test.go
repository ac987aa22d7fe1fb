package kami

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vigil-labs/vigil/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Kami) {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	kc := &config.KamiEnvConfig{
		KamiHost: ts.Listener.Addr().(*net.TCPAddr).IP.String(),
		KamiPort: fmt.Sprint(ts.Listener.Addr().(*net.TCPAddr).Port),
	}
	k, err := NewKami(kc)
	if err != nil {
		t.Fatalf("new kami: %v", err)
	}
	k.BaseURL = ts.URL
	k.client.SetBaseURL(ts.URL)
	return ts, k
}

func TestNewKami_NilConfig(t *testing.T) {
	_, err := NewKami(nil)
	if err == nil {
		t.Fatalf("expected error when cfg is nil")
	}
}

func TestGetMetagraph_Success(t *testing.T) {
	payload := `{"statusCode":200,"success":true,"data":{"netuid":18,"name":"n","block":10,"tempo":0,"numUids":2,"maxUids":256,"hotkeys":["hkA","hkB"],"coldkeys":["ckA","ckB"],"axons":[{"block":0,"version":1,"ip":"10.0.0.1","port":8091,"ipType":4,"protocol":0},{"block":0,"version":1,"ip":"10.0.0.2","port":8091,"ipType":4,"protocol":0}],"active":[true,true],"lastUpdate":[0,0],"alphaStake":[0,0],"taoStake":[0,0],"totalStake":[0,0]},"error":null}`
	_, k := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain/subnet-metagraph/18" || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(payload))
	})

	res, err := k.GetMetagraph(18)
	if err != nil {
		t.Fatalf("GetMetagraph error: %v", err)
	}
	if res.Data.Netuid != 18 || len(res.Data.Hotkeys) != 2 {
		t.Fatalf("unexpected response: %+v", res)
	}
	if res.Data.Axons[1].IP != "10.0.0.2" {
		t.Fatalf("unexpected axon: %+v", res.Data.Axons[1])
	}
}

func TestGetMetagraph_HTTPError(t *testing.T) {
	_, k := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad"))
	})
	_, err := k.GetMetagraph(18)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetLatestBlock_Success(t *testing.T) {
	_, k := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain/latest-block" || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"statusCode":200,"success":true,"data":{"parentHash":"0x1","blockNumber":1,"stateRoot":"0x2","extrinsicsRoot":"0x3"},"error":null}`))
	})

	res, err := k.GetLatestBlock()
	if err != nil {
		t.Fatalf("GetLatestBlock error: %v", err)
	}
	if res.Data.BlockNumber != 1 {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestSetWeights_Success(t *testing.T) {
	_, k := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain/set-weights" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"statusCode":200,"success":true,"data":"0xdead","error":null}`))
	})

	res, err := k.SetWeights(SetWeightsParams{Netuid: 18})
	if err != nil {
		t.Fatalf("SetWeights error: %v", err)
	}
	if res.Data != "0xdead" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestSetWeights_ResponseErrorField(t *testing.T) {
	_, k := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"statusCode":200,"success":false,"data":"","error":{"msg":"boom"}}`))
	})
	_, err := k.SetWeights(SetWeightsParams{Netuid: 18})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestSignAndKeyring_Success(t *testing.T) {
	_, k := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/substrate/sign-message/sign":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"statusCode":200,"success":true,"data":{"signature":"sig"},"error":null}`))
		case "/substrate/keyring-pair-info":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"statusCode":200,"success":true,"data":{"keyringPair":{"address":"addr","isLocked":false,"meta":{},"publicKey":{},"type":"sr25519"},"walletColdkey":"cold"},"error":null}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	sig, err := k.SignMessage(SignMessageParams{Message: "m"})
	if err != nil || sig.Data.Signature != "sig" {
		t.Fatalf("sign unexpected: %v %+v", err, sig)
	}
	kr, err := k.GetKeyringPair()
	if err != nil || kr.Data.KeyringPair.Address != "addr" {
		t.Fatalf("keyring unexpected: %v %+v", err, kr)
	}
}
