package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Keith-CY/force-bridge/cmd"
	"github.com/Keith-CY/force-bridge/logconfig"
	"github.com/Keith-CY/force-bridge/tronindexer"
	"github.com/Keith-CY/force-bridge/tronwallet"
)

const (
	ENV_CONFIG_FILE_PATH = "FORCE_BRIDGE_CONFIG"
)

func main() {
	logconfig.ConfigProductionLogger()

	// Tool to read environment variables
	viper.AutomaticEnv()

	_config_file := viper.GetString(ENV_CONFIG_FILE_PATH)
	fmt.Printf("Relay configuration file = %s\n", _config_file)

	if !cmd.FileExists(_config_file) {
		fmt.Printf("Relay configuration file not found: %s\n", _config_file)
		return
	}

	if !initializeViper(_config_file) {
		return
	}

	rc := PrepareRelayConfig()
	if rc == nil {
		fmt.Printf("Error loading relay configuration\n")
		return
	}

	fmt.Println("Starting tron relay... press Ctrl+C to stop")
	cmd.StartRelayAndWait(rc)
}

func initializeViper(filePath string) bool {
	viper.SetConfigFile(filePath)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading configuration file, %s", err)
		return false
	}
	return true
}

// PrepareRelayConfig reads configuration variables and returns a RelayConfig.
func PrepareRelayConfig() *cmd.RelayConfig {
	committee := tronwallet.Committee{
		OperatingAccount: viper.GetString("TRON_OPERATING_ACCOUNT"),
		PermissionID:     viper.GetInt32("TRON_PERMISSION_ID"),
		Keys:             strings.Split(viper.GetString("TRON_COMMITTEE_KEYS"), ","),
	}
	if err := committee.Validate(); err != nil {
		fmt.Printf("Invalid committee configuration: %s\n", err)
		return nil
	}

	rc := &cmd.RelayConfig{
		DbFilePath:     viper.GetString("DB_FILE_PATH"),
		AccountAddress: viper.GetString("TRON_BRIDGE_ACCOUNT"),
		ScanInterval:   viper.GetDuration("SCAN_INTERVAL"),
		SweepInterval:  viper.GetDuration("SWEEP_INTERVAL"),
		Jitter:         viper.GetDuration("LOOP_JITTER"),
		Committee:      committee,
		FeeLimit:       viper.GetInt64("TRC20_FEE_LIMIT"),
	}
	if rc.ScanInterval == 0 {
		rc.ScanInterval = 15 * time.Second
	}
	if rc.SweepInterval == 0 {
		rc.SweepInterval = 15 * time.Second
	}

	// The tron RPC integration supplies the real clients; the bundled
	// simulated pair keeps the relay runnable as a dry-run harness.
	if viper.GetBool("DRY_RUN") {
		rc.Indexer = tronindexer.NewSimulatedIndexer()
		rc.Wallet = tronwallet.NewSimulatedWallet()
	} else {
		rc.Indexer = tronindexer.NewHTTPClient(viper.GetString("TRON_INDEXER_URL"))
		rc.Wallet = tronwallet.NewHTTPWallet(viper.GetString("TRON_WALLET_URL"))
	}

	return rc
}
