// Command ds3serve mounts a disk image and exposes it over HTTP under the
// /ds3/ path prefix.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/Dieg0raf/ufs/ds3http"
	"github.com/Dieg0raf/ufs/internal/cliutil"
	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ds3serve",
	Short: "Serve a UFS disk image over HTTP",
	RunE:  run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("addr", ":8080", "address to listen on")
	flags.String("image", "", "path to the disk image to serve")
	flags.Bool("read-only", false, "reject PUT and DELETE requests")

	viper.SetEnvPrefix("DS3")
	viper.AutomaticEnv()
	viper.BindPFlag("addr", flags.Lookup("addr"))
	viper.BindPFlag("image", flags.Lookup("image"))
	viper.BindPFlag("read_only", flags.Lookup("read-only"))
}

func run(cmd *cobra.Command, args []string) error {
	imagePath := viper.GetString("image")
	if imagePath == "" {
		return fmt.Errorf("--image is required")
	}

	mounted, err := cliutil.OpenImage(imagePath)
	if err != nil {
		return fmt.Errorf("mount %q: %w", imagePath, err)
	}
	defer mounted.Close()

	var handler http.Handler = ds3http.New(mounted.FS)
	if viper.GetBool("read_only") {
		handler = readOnly(handler)
	}

	logged := handlers.LoggingHandler(os.Stdout, handler)
	recovered := handlers.RecoveryHandler()(logged)

	addr := viper.GetString("addr")
	fmt.Fprintf(os.Stdout, "ds3serve listening on %s, serving %s\n", addr, imagePath)
	return http.ListenAndServe(addr, recovered)
}

func readOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut || r.Method == http.MethodDelete {
			http.Error(w, "image mounted read-only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
