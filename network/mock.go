package network

import "context"

// MockBlockchainService is a test double for BlockchainService.
// All function fields must be set before the corresponding method is called.
type MockBlockchainService struct {
	ListUnspentFn        func(ctx context.Context, address string) ([]*UTXO, error)
	BroadcastTxFn        func(ctx context.Context, rawTxHex string) (string, error)
	BroadcastTxWrappedFn func(ctx context.Context, rawTxHex string) (string, error)
	GetRawTxFn           func(ctx context.Context, txid string) ([]byte, error)
	GetTxStatusFn        func(ctx context.Context, txid string) (*TxStatus, error)
}

func (m *MockBlockchainService) ListUnspent(ctx context.Context, address string) ([]*UTXO, error) {
	return m.ListUnspentFn(ctx, address)
}
func (m *MockBlockchainService) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	return m.BroadcastTxFn(ctx, rawTxHex)
}
func (m *MockBlockchainService) BroadcastTxWrapped(ctx context.Context, rawTxHex string) (string, error) {
	return m.BroadcastTxWrappedFn(ctx, rawTxHex)
}
func (m *MockBlockchainService) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	return m.GetRawTxFn(ctx, txid)
}
func (m *MockBlockchainService) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	return m.GetTxStatusFn(ctx, txid)
}
