// Copyright 2024 tutormatch Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tutormatch/tutormatch/base/log"
	"github.com/tutormatch/tutormatch/config"
	"github.com/tutormatch/tutormatch/server"
)

var command = &cobra.Command{
	Use:   "tutormatch",
	Short: "Hybrid student-tutor recommender server.",
	Run: func(cmd *cobra.Command, args []string) {
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)
		defer log.CloseLogger()
		// load config
		cfg := config.GetDefaultConfig()
		if configPath, _ := cmd.PersistentFlags().GetString("config"); configPath != "" {
			log.Logger().Info("load config", zap.String("config", configPath))
			var err error
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				log.Logger().Fatal("failed to load config", zap.Error(err))
			}
		}
		// apply overrides from command line
		if cmd.PersistentFlags().Changed("http-host") {
			cfg.Server.HttpHost, _ = cmd.PersistentFlags().GetString("http-host")
		}
		if cmd.PersistentFlags().Changed("http-port") {
			cfg.Server.HttpPort, _ = cmd.PersistentFlags().GetInt("http-port")
		}
		if cmd.PersistentFlags().Changed("model-path") {
			cfg.Server.ModelPath, _ = cmd.PersistentFlags().GetString("model-path")
		}
		// create server
		s := server.NewServer(cfg)
		s.Serve()
	},
}

func init() {
	command.PersistentFlags().StringP("config", "c", "", "configuration file path")
	command.PersistentFlags().Bool("debug", false, "use debug log mode")
	command.PersistentFlags().String("http-host", "127.0.0.1", "HTTP host")
	command.PersistentFlags().Int("http-port", 8088, "HTTP port")
	command.PersistentFlags().String("model-path", "tutormatch.model", "model snapshot path")
	log.AddFlags(command.PersistentFlags())
}

func main() {
	if err := command.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
