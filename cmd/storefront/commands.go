package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"storefront/internal/app"
	"storefront/internal/models"
	"storefront/internal/preference"
	"storefront/internal/receipt"
	"storefront/internal/view"

	"github.com/spf13/cobra"
)

var errMissingCredentials = errors.New("please enter both fields")

var loginCmd = &cobra.Command{
	Use:   "login [username] [password]",
	Short: "Sign in and store the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "" || args[1] == "" {
			return errMissingCredentials
		}
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			if err := c.Session.Login(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
			return nil
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup [email] [password]",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "" || args[1] == "" {
			return errMissingCredentials
		}
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			if err := c.Session.Signup(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created.")
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			err := c.Session.Logout(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return err
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the session state and profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			out := cmd.OutOrStdout()
			snap := c.Session.Snapshot()
			fmt.Fprintf(out, "state: %s\n", c.Session.State())
			if snap.Profile == nil {
				fmt.Fprintln(out, "profile: none")
				return nil
			}
			p := snap.Profile
			fmt.Fprintf(out, "name: %s\nemail: %s\nphone: %s\naddress: %s\n", p.Name, p.Email, p.Phone, p.Address)
			return nil
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the signed-in profile",
}

var profileFlags models.Profile

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the profile (all fields required)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := profileFlags
		if err := profile.Validate(); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			if !c.Session.Snapshot().Authenticated() {
				return errors.New("sign in first")
			}
			if err := c.Session.SaveProfile(ctx, profile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
			return nil
		})
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			fmt.Fprintln(cmd.OutOrStdout(), preference.Themed(c.Theme, "Light Mode ☀️", "Dark Mode 🌙"))
			return nil
		})
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			_, err := c.Theme.Toggle(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), preference.Themed(c.Theme, "Light Mode ☀️", "Dark Mode 🌙"))
			return err
		})
	},
}

var productsCategory string

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products, optionally in one category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			pv := c.ProductsView()
			if err := pv.Refresh(ctx); err != nil {
				return err
			}
			for _, p := range pv.SelectCategory(productsCategory) {
				printProduct(cmd.OutOrStdout(), p)
			}
			return nil
		})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			pv := c.ProductsView()
			if err := pv.Refresh(ctx); err != nil {
				return err
			}
			for _, name := range pv.Snapshot().Categories {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

var featuredTicks int

var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "Run the featured carousel for a number of ticks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			home := c.HomeView()
			defer home.Close()

			if err := home.Refresh(ctx); err != nil {
				return err
			}
			featured := home.Snapshot().Featured
			if len(featured) == 0 || featuredTicks <= 0 {
				return nil
			}

			out := cmd.OutOrStdout()
			printProduct(out, featured[0])

			scrolls := make(chan view.Scroll, 1)
			cancel := home.Subscribe(func(s view.HomeSnapshot) {
				select {
				case scrolls <- s.Scroll:
				default:
				}
			})
			defer cancel()

			for seen := 0; seen < featuredTicks; {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case s := <-scrolls:
					seen++
					fmt.Fprintf(out, "offset %.0f: ", s.Offset)
					printProduct(out, featured[s.Index])
				case <-time.After(2 * c.Config.CarouselInterval):
					return errors.New("carousel stalled")
				}
			}
			return nil
		})
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback [text]",
	Short: "Send feedback",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := ""
		if len(args) == 1 {
			text = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(data)
		}

		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			home := c.HomeView()
			defer home.Close()

			home.SetFeedback(text)
			if _, err := home.SubmitFeedback(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Thank you for your feedback!")
			return nil
		})
	},
}

var buyer models.Buyer

var buyCmd = &cobra.Command{
	Use:   "buy [product-id]",
	Short: "Buy a product and record the order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			if !c.Session.Snapshot().Authenticated() {
				return errors.New("sign in first")
			}

			product, err := c.Catalog.GetProduct(ctx, id)
			if err != nil {
				return err
			}

			order, err := c.Checkout.Place(ctx, product, buyer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed.\n", order.ID)
			printFields(cmd.OutOrStdout(), order)
			return nil
		})
	},
}

func printProduct(w io.Writer, p models.Product) {
	fmt.Fprintf(w, "%4d  ₹ %-8s %s\n", p.ID, receipt.FormatPrice(p.Price), p.Title)
}

func printFields(w io.Writer, order models.Order) {
	for _, f := range receipt.Fields(order) {
		fmt.Fprintf(w, "%-17s %s\n", f.Label+":", f.Value)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	profileSetCmd.Flags().StringVar(&profileFlags.Name, "name", "", "full name")
	profileSetCmd.Flags().StringVar(&profileFlags.Email, "email", "", "email address")
	profileSetCmd.Flags().StringVar(&profileFlags.Phone, "phone", "", "phone number")
	profileSetCmd.Flags().StringVar(&profileFlags.Address, "address", "", "delivery address")
	profileCmd.AddCommand(profileSetCmd)

	themeCmd.AddCommand(themeToggleCmd)

	productsCmd.Flags().StringVar(&productsCategory, "category", view.AllCategories, "category to show")
	featuredCmd.Flags().IntVar(&featuredTicks, "ticks", 3, "number of carousel ticks to show")

	buyCmd.Flags().StringVar(&buyer.Name, "name", "", "buyer name")
	buyCmd.Flags().StringVar(&buyer.Address, "address", "", "delivery address")
	buyCmd.Flags().StringVar(&buyer.PaymentMethod, "payment", "", "payment method")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd, profileCmd, themeCmd,
		productsCmd, categoriesCmd, featuredCmd, feedbackCmd, buyCmd)
}
