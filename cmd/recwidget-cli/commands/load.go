package commands

import (
	"fmt"
	"os"

	"recwidget/lib/configutil"
	"recwidget/lib/htmlutil"
	"recwidget/lib/telemetry"
	"recwidget/widget"
	"recwidget/widget/cache"
	"recwidget/widget/dom"
	"recwidget/widget/fetch"
	"recwidget/widget/source"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

// Config is read from recwidget.json5, searched upward from the cwd.
// Flags override it.
type Config struct {
	BaseURL    string `json:"base_url"`
	Collection string `json:"collection"`
	SectionID  string `json:"section_id"`
}

var loadFlags struct {
	baseURL     string
	productID   string
	containerID string
	layout      string
	sectionID   string
	intent      string
	collection  string
	productsURL string
	cacheDir    string
	text        bool
	preview     bool
	verbose     bool
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "run one acquisition and print the resulting fragment",
	RunE: func(cmd *cobra.Command, _ []string) error {
		telemetry.InitSlog(loadFlags.verbose)

		config, err := configutil.ReadRecursively[Config]("recwidget.json5")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		baseURL := config.BaseURL
		if loadFlags.baseURL != "" {
			baseURL = loadFlags.baseURL
		}
		if baseURL == "" {
			return fmt.Errorf("no base url configured, pass --base-url or set base_url in recwidget.json5")
		}
		collection := config.Collection
		if loadFlags.collection != "" {
			collection = loadFlags.collection
		}
		sectionID := config.SectionID
		if loadFlags.sectionID != "" {
			sectionID = loadFlags.sectionID
		}

		el := dom.NewElement()
		el.SetAttr("id", loadFlags.containerID)
		el.SetAttr(widget.AttrProductID, loadFlags.productID)
		el.SetAttr(widget.AttrLayout, loadFlags.layout)
		if sectionID != "" {
			el.SetAttr(widget.AttrSectionID, sectionID)
		}
		if loadFlags.intent != "" {
			el.SetAttr(widget.AttrIntent, loadFlags.intent)
		}
		if collection != "" {
			el.SetAttr(widget.AttrCollection, collection)
		}
		if loadFlags.productsURL != "" {
			el.SetAttr(widget.AttrProductsURL, loadFlags.productsURL)
		}

		var store *cache.Cache
		if loadFlags.cacheDir != "" {
			db, err := badger.Open(
				badger.DefaultOptions(loadFlags.cacheDir).WithLogger(nil),
			)
			if err != nil {
				return err
			}
			store = cache.New(db)
		} else {
			store, err = cache.NewInMemory()
			if err != nil {
				return err
			}
		}
		defer store.Close()

		client := resty.New()
		telemetry.InstrumentResty(client, "recwidget-cli")

		orch := widget.New(widget.Options{
			Element: el,
			Deps: source.Deps{
				Cache:   store,
				Fetch:   fetch.New(client),
				BaseURL: baseURL,
			},
			Preview: loadFlags.preview,
		})

		state := orch.Run(cmd.Context())
		if state != widget.Succeeded {
			return fmt.Errorf(
				"acquisition %s: %s",
				state, el.Attr(dom.AttrError),
			)
		}

		if loadFlags.text {
			fmt.Println(htmlutil.TextFromMarkup(el.Content()))
			return nil
		}
		fmt.Println(el.Content())
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadFlags.baseURL, "base-url", "", "endpoint base url")
	loadCmd.Flags().StringVar(&loadFlags.productID, "product-id", "", "product the recommendations are for")
	loadCmd.Flags().StringVar(&loadFlags.containerID, "container-id", "recs-widget", "container id the fragment endpoint addresses")
	loadCmd.Flags().StringVar(&loadFlags.layout, "layout", "grid", "grid or carousel")
	loadCmd.Flags().StringVar(&loadFlags.sectionID, "section-id", "", "section id for the fragment endpoint")
	loadCmd.Flags().StringVar(&loadFlags.intent, "intent", "", "recommendation intent")
	loadCmd.Flags().StringVar(&loadFlags.collection, "collection", "", "fallback collection handle")
	loadCmd.Flags().StringVar(&loadFlags.productsURL, "products-url", "", "configured recommendations url, used for its limit parameter")
	loadCmd.Flags().StringVar(&loadFlags.cacheDir, "cache-dir", "", "persist the response cache at this path instead of in memory")
	loadCmd.Flags().BoolVar(&loadFlags.text, "text", false, "print the fragment's visible text instead of markup")
	loadCmd.Flags().BoolVar(&loadFlags.preview, "preview", false, "swallow terminal failures like the theme editor does")
	loadCmd.Flags().BoolVar(&loadFlags.verbose, "verbose", false, "debug logging")
	rootCmd.AddCommand(loadCmd)
}
