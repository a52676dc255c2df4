package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-reviewer/internal/config"
	"github.com/jonathan/resume-reviewer/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a JWT for the HTTP API",
	Long:  `Print a bearer token signed with auth.jwt_secret. A client id is generated when --client-id is empty.`,
	RunE:  runToken,
}

var tokenClientID string

var hashKeyCmd = &cobra.Command{
	Use:   "hash-key",
	Short: "Hash an API key for auth.api_key_hash",
	RunE:  runHashKey,
}

var hashKeyValue string

func init() {
	tokenCmd.Flags().StringVar(&tokenClientID, "client-id", "", "Client UUID embedded in the token")
	rootCmd.AddCommand(tokenCmd)

	hashKeyCmd.Flags().StringVar(&hashKeyValue, "key", "", "API key to hash (required)")
	_ = hashKeyCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(hashKeyCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	return current.token(tokenClientID, cmd.OutOrStdout())
}

func (a *app) token(clientID string, stdout io.Writer) error {
	jwtCfg, err := a.cfg.Auth.JWT()
	if err != nil {
		return fmt.Errorf("invalid jwt settings: %w", err)
	}
	if jwtCfg == nil {
		return fmt.Errorf("auth.jwt_secret is not set")
	}

	id := uuid.New()
	if clientID != "" {
		if id, err = uuid.Parse(clientID); err != nil {
			return fmt.Errorf("invalid --client-id: %w", err)
		}
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(id)
	if err != nil {
		return err
	}
	a.logger.Debug("issued token", zap.String("client_id", id.String()), zap.Int("expires_in_hours", jwtCfg.ExpirationHours))
	_, err = fmt.Fprintln(stdout, token)
	return err
}

func runHashKey(cmd *cobra.Command, _ []string) error {
	return current.hashKey(hashKeyValue, cmd.OutOrStdout())
}

func (a *app) hashKey(key string, stdout io.Writer) error {
	keys := &config.APIKeyConfig{BcryptCost: a.cfg.Auth.BcryptCost}
	hash, err := keys.HashAPIKey(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, hash)
	return err
}
