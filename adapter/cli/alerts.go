package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cockpit/internal/projects/application/services"
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/eventbus"
)

var alertsQueue string

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Work with project health alerts",
}

var alertsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print health alerts as they are published",
	Long: `Consume project health alerts from RabbitMQ and print them.

Without --queue a temporary queue is used and only alerts published
while watching are shown.

Examples:
  cockpit alerts watch
  cockpit alerts watch --queue cockpit.alerts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.RabbitMQURL == "" {
			return fmt.Errorf("RABBITMQ_URL is not configured")
		}

		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       app.RabbitMQURL,
			QueueName: alertsQueue,
			Bindings:  []string{eventbus.DefaultBinding},
			Logger:    Logger(),
		})
		if err != nil {
			return err
		}
		defer func() { _ = consumer.Close() }()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Watching project health alerts (Ctrl+C to stop)...")
		err = consumer.Start(cmd.Context(), printAlert(out))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// printAlert renders each alert as a short block. Undecodable payloads are
// printed raw rather than requeued.
func printAlert(out io.Writer) eventbus.Handler {
	return func(_ context.Context, routingKey string, payload []byte) error {
		var alert services.ProjectHealthAlert
		if err := json.Unmarshal(payload, &alert); err != nil {
			fmt.Fprintf(out, "[%s] %s\n", routingKey, string(payload))
			return nil
		}

		fmt.Fprintf(out, "%s %s (%s) [%s]\n",
			StatusIcon(alert.Status), alert.Name, alert.ProjectID, routingKey)
		for _, r := range alert.Reasons {
			fmt.Fprintf(out, "   - %s: %s\n", r.Title, r.Detail)
		}
		if alert.NextAction != nil {
			fmt.Fprintf(out, "   Next: %s -> %s\n", alert.NextAction.Title, alert.NextAction.CTARoute)
		}
		return nil
	}
}

// StatusIcon maps a traffic light to its display icon.
func StatusIcon(status string) string {
	switch strings.ToLower(status) {
	case "green":
		return "🟢"
	case "yellow":
		return "🟡"
	case "red":
		return "🔴"
	default:
		return "⚪"
	}
}

func init() {
	alertsWatchCmd.Flags().StringVar(&alertsQueue, "queue", "", "durable queue name (default: temporary queue)")
	alertsCmd.AddCommand(alertsWatchCmd)
	rootCmd.AddCommand(alertsCmd)
}
