package handlers

import "net/http"

// NetworkInfo is the chain configuration the portals need to point the
// user's wallet at the right network.
type NetworkInfo struct {
	ContractAddress string `json:"contractAddress"`
	ChainID         int64  `json:"chainId"`
	NetworkName     string `json:"networkName"`
	ExplorerURL     string `json:"explorerUrl"`
	DemoMode        bool   `json:"demoMode"`
}

// GetNetworkInfo returns the configured contract and network details.
func GetNetworkInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, NetworkInfo{
		ContractAddress: cfg.ContractAddress,
		ChainID:         cfg.ChainID,
		NetworkName:     cfg.NetworkName,
		ExplorerURL:     cfg.ExplorerURL,
		DemoMode:        cfg.DemoMode,
	})
}
