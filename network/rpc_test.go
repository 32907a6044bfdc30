package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRPCClientCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "testuser", user)
		assert.Equal(t, "testpass", pass)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getblockcount", req.Method)

		resp := rpcResponse{ID: req.ID, Result: json.RawMessage(`100`)}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL, User: "testuser", Password: "testpass"})
	var height int
	err := client.Call(context.Background(), "getblockcount", nil, &height)
	require.NoError(t, err)
	assert.Equal(t, 100, height)
}

func TestRPCClientRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		resp := rpcResponse{
			Error: &rpcError{Code: -26, Message: "mandatory-script-verify-flag-failed"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	var result json.RawMessage
	err := client.Call(context.Background(), "sendrawtransaction", []interface{}{"deadbeef"}, &result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mandatory-script-verify-flag-failed")
}

// The node's unknown-transaction error code maps to ErrTxNotFound so the
// verifier can report a distinct not-yet-indexed outcome.
func TestRPCClientTxNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		resp := rpcResponse{
			Error: &rpcError{Code: -5, Message: "No such mempool or blockchain transaction"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	_, err := client.GetRawTx(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrTxNotFound)
}

// A non-2xx response carries its body in the error, whether or not the
// body parses as a JSON-RPC envelope.
func TestRPCClientHTTPErrorBody(t *testing.T) {
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("gateway exploded"))
	}))
	defer plain.Close()

	client := NewRPCClient(RPCConfig{URL: plain.URL})
	err := client.Call(context.Background(), "getblockcount", nil, nil)
	require.ErrorIs(t, err, ErrConnectionFailed)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Contains(t, err.Error(), "gateway exploded")

	envelope := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"result":null,"error":null,"id":0}`))
	}))
	defer envelope.Close()

	client = NewRPCClient(RPCConfig{URL: envelope.URL})
	err = client.Call(context.Background(), "getblockcount", nil, nil)
	require.ErrorIs(t, err, ErrConnectionFailed)
	assert.Contains(t, err.Error(), "HTTP 503")
	assert.Contains(t, err.Error(), `"error":null`)
}

func TestRPCClientConnectionError(t *testing.T) {
	client := NewRPCClient(RPCConfig{URL: "http://localhost:1"})
	var result int
	err := client.Call(context.Background(), "getblockcount", nil, &result)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestListUnspent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "listunspent", req.Method)
		require.Len(t, req.Params, 3)
		assert.Equal(t, []interface{}{"1TestAddress"}, req.Params[2])

		resp := rpcResponse{ID: req.ID, Result: json.RawMessage(`[
			{"txid":"aa","vout":0,"amount":0.00010000,"scriptPubKey":"76a914","address":"1TestAddress","confirmations":6},
			{"txid":"bb","vout":1,"amount":1.5,"scriptPubKey":"76a914","address":"1TestAddress","confirmations":2}
		]`)}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	utxos, err := client.ListUnspent(context.Background(), "1TestAddress")
	require.NoError(t, err)
	require.Len(t, utxos, 2)
	assert.Equal(t, uint64(10000), utxos[0].Amount, "coin amount converted to satoshis")
	assert.Equal(t, uint64(150000000), utxos[1].Amount)
}

func TestBroadcastTxShapes(t *testing.T) {
	var gotParams []json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     int64             `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sendrawtransaction", req.Method)
		require.Len(t, req.Params, 1)
		gotParams = append(gotParams, req.Params[0])

		resp := rpcResponse{ID: req.ID, Result: json.RawMessage(`"txid123"`)}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})

	txid, err := client.BroadcastTx(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "txid123", txid)

	txid, err = client.BroadcastTxWrapped(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "txid123", txid)

	require.Len(t, gotParams, 2)
	assert.Equal(t, `"deadbeef"`, string(gotParams[0]), "bare-string shape")
	assert.JSONEq(t, `{"hex":"deadbeef"}`, string(gotParams[1]), "wrapped object shape")
}

func TestBroadcastTxRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := rpcResponse{ID: req.ID, Error: &rpcError{Code: -22, Message: "TX decode failed"}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	_, err := client.BroadcastTx(context.Background(), "nothex")
	assert.ErrorIs(t, err, ErrBroadcastRejected)
}

func TestGetRawTx(t *testing.T) {
	raw := []byte{0x01, 0x00, 0x00, 0x00}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getrawtransaction", req.Method)
		assert.Equal(t, false, req.Params[1])

		resp := rpcResponse{ID: req.ID, Result: json.RawMessage(`"` + hex.EncodeToString(raw) + `"`)}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	data, err := client.GetRawTx(context.Background(), "sometxid")
	require.NoError(t, err)
	assert.Equal(t, raw, data)
}

func TestGetTxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req.Params[1])
		resp := rpcResponse{ID: req.ID, Result: json.RawMessage(`{"confirmations":3,"blockhash":"000abc","blockheight":820001}`)}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	status, err := client.GetTxStatus(context.Background(), "sometxid")
	require.NoError(t, err)
	assert.True(t, status.Confirmed)
	assert.Equal(t, int64(3), status.Confirmations)
	assert.Equal(t, uint64(820001), status.BlockHeight)
}
