package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/VaultTeam/vault-go-node/core/code"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/VaultTeam/vault-go-node/core/vault"
	"github.com/VaultTeam/vault-go-node/version"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// Service is the read-only JSON surface over the ledger. Mutating
// operations only enter through the Go API.
type Service struct {
	vault  *vault.Vault
	logger tmlog.Logger
}

func NewService(v *vault.Vault, logger tmlog.Logger) *Service {
	return &Service{vault: v, logger: logger}
}

// Handler builds the gin router with balance, valuation, status and
// metrics endpoints.
func (s *Service) Handler(registry *prometheus.Registry) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/balance/:asset/:address", s.balance)
	r.GET("/usd_balance/:asset/:address", s.usdBalance)
	r.GET("/status", s.status)
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	return r
}

// Run serves the API on the given listen address until the server stops.
func (s *Service) Run(listenAddr string, registry *prometheus.Registry) error {
	addr := strings.TrimPrefix(listenAddr, "tcp://")

	s.logger.Info("starting API", "addr", addr)

	return http.ListenAndServe(addr, s.Handler(registry))
}

func (s *Service) balance(c *gin.Context) {
	asset, address, ok := parsePath(c)
	if !ok {
		return
	}

	balance := s.vault.BalanceOf(asset, address)

	c.JSON(http.StatusOK, gin.H{
		"asset":   asset.String(),
		"address": address.String(),
		"balance": balance.String(),
	})
}

func (s *Service) usdBalance(c *gin.Context) {
	asset, address, ok := parsePath(c)
	if !ok {
		return
	}

	value, err := s.vault.EstimatedUSDBalance(asset, address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    code.CodeOf(err),
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asset":       asset.String(),
		"address":     address.String(),
		"usd_balance": value.String(),
	})
}

func (s *Service) status(c *gin.Context) {
	capacity := s.vault.CurrentState().Capacity()

	c.JSON(http.StatusOK, gin.H{
		"version":         version.Version,
		"settlement":      s.vault.Settlement().String(),
		"total_custodied": capacity.Total().String(),
		"ceiling":         capacity.Ceiling().String(),
		"deposit_count":   capacity.DepositCount(),
		"withdraw_count":  capacity.WithdrawCount(),
	})
}

func parsePath(c *gin.Context) (types.AssetID, types.Address, bool) {
	assetI, err := strconv.ParseUint(c.Param("asset"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "invalid asset id"},
		})
		return 0, types.Address{}, false
	}

	addressS := c.Param("address")
	if !types.IsValidAddress(addressS) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "invalid address"},
		})
		return 0, types.Address{}, false
	}

	return types.AssetID(assetI), types.HexToAddress(addressS), true
}
