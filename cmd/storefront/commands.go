package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/internal/app"
	"github.com/angelmondragon/artmarket-storefront/internal/catalog"
	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/pagination"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

var errUsage = errors.New("usage")

const usage = `usage: storefront <command> [flags]

catalog:   artworks | artwork <id> | featured | categories | artists | artist <id>
account:   login | register | logout | whoami | profile | addresses
           reset-password | change-password
cart:      cart | add <artwork-id> | set <artwork-id> <qty> | remove <artwork-id> | clear
favorites: favorites | fav <artwork-id> | like <artwork-id>
orders:    checkout | orders | order <id>
`

type command func(c *cli, ctx context.Context, args []string) error

var commands = map[string]command{
	"artworks":        (*cli).artworks,
	"artwork":         (*cli).artwork,
	"featured":        (*cli).featured,
	"categories":      (*cli).categories,
	"artists":         (*cli).artists,
	"artist":          (*cli).artist,
	"login":           (*cli).login,
	"register":        (*cli).register,
	"logout":          (*cli).logout,
	"whoami":          (*cli).whoami,
	"profile":         (*cli).profile,
	"addresses":       (*cli).addresses,
	"reset-password":  (*cli).resetPassword,
	"change-password": (*cli).changePassword,
	"cart":            (*cli).cart,
	"add":             (*cli).add,
	"set":             (*cli).set,
	"remove":          (*cli).remove,
	"clear":           (*cli).clear,
	"favorites":       (*cli).favorites,
	"fav":             (*cli).fav,
	"like":            (*cli).like,
	"checkout":        (*cli).checkout,
	"orders":          (*cli).orders,
	"order":           (*cli).order,
}

type cli struct {
	sf  *app.Storefront
	out io.Writer
}

// run dispatches one command against an initialised storefront.
func run(ctx context.Context, sf *app.Storefront, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	sf.Navigate("/" + args[0])
	return cmd(&cli{sf: sf, out: out}, ctx, args[1:])
}

// describe renders an error for the terminal, with field errors listed.
func describe(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err.Error()
	}
	msg := pkgerrors.UserMessage(err)
	meta := pkgerrors.MetadataFor(pkgerrors.CodeOf(err))
	switch {
	case meta.Surface == pkgerrors.SurfacePrompt:
		msg += "\n  run \"storefront login\" to sign in"
	case meta.Retryable:
		msg += "\n  the request can be retried"
	}
	fields := typed.FieldErrors()
	if len(fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %s", k, fields[k])
	}
	return b.String()
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

func (c *cli) price(p *float64) string {
	if d := c.sf.Prices.ConvertForDisplay(p); d != nil {
		return d.String()
	}
	return "price unavailable"
}

func (c *cli) note(source catalog.Source) {
	if source == catalog.SourceFixtures {
		fmt.Fprintln(c.out, "(offline: showing sample catalog)")
	}
}

func oneArg(args []string, what string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%w: expected %s", errUsage, what)
	}
	return strings.TrimSpace(args[0]), nil
}

func (c *cli) printArtworks(items []types.Artwork) {
	w := c.table()
	fmt.Fprintln(w, "ID\tTITLE\tARTIST\tPRICE\tLIKES\t")
	for _, a := range items {
		status := ""
		if !a.IsForSale {
			status = "not for sale"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", a.ID, a.Title, a.ArtistName, c.price(a.Price), a.Likes, status)
	}
	_ = w.Flush()
}

func (c *cli) artworks(ctx context.Context, args []string) error {
	fs := c.flags("artworks")
	category := fs.String("category", "", "category filter")
	medium := fs.String("medium", "", "medium filter")
	artist := fs.String("artist", "", "artist id filter")
	search := fs.String("search", "", "search term")
	sortBy := fs.String("sort", "", "newest|price|year|title|likes")
	order := fs.String("order", "", "asc|desc")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", pagination.DefaultLimit, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := api.ArtworkQuery{
		Filter: types.ArtworkFilter{Category: *category, Medium: *medium, ArtistID: *artist, Search: *search},
		Page:   pagination.Params{Page: *page, Limit: *limit},
	}
	if *sortBy != "" {
		s, err := enums.ParseArtworkSort(*sortBy)
		if err != nil {
			return err
		}
		q.SortBy = s
	}
	if *order != "" {
		o, err := enums.ParseSortOrder(*order)
		if err != nil {
			return err
		}
		q.SortOrder = o
	}

	result, source, err := c.sf.Catalog.ListArtworks(ctx, q)
	if err != nil {
		return err
	}
	c.note(source)
	c.printArtworks(result.Items)
	fmt.Fprintf(c.out, "page %d of %d (%d artworks)\n", result.Page, pagination.TotalPages(result.Total, result.Limit), result.Total)
	return nil
}

func (c *cli) artwork(ctx context.Context, args []string) error {
	id, err := oneArg(args, "an artwork id")
	if err != nil {
		return err
	}
	a, source, err := c.sf.Catalog.GetArtwork(ctx, id)
	if err != nil {
		return err
	}
	c.note(source)
	fmt.Fprintf(c.out, "%s\n%s\n", a.Title, a.ArtistName)
	w := c.table()
	fmt.Fprintf(w, "price\t%s\n", c.price(a.Price))
	fmt.Fprintf(w, "category\t%s\n", a.Category)
	fmt.Fprintf(w, "medium\t%s\n", a.Medium)
	if a.Year > 0 {
		fmt.Fprintf(w, "year\t%d\n", a.Year)
	}
	if a.Dimensions != "" {
		fmt.Fprintf(w, "size\t%s\n", a.Dimensions)
	}
	fmt.Fprintf(w, "likes\t%d\n", a.Likes)
	fmt.Fprintf(w, "in cart\t%d\n", c.sf.Cart.Quantity(a.ID))
	if c.sf.Session.IsAuthenticated() {
		fmt.Fprintf(w, "favorite\t%t\n", c.sf.Favorites.IsFavorite(a.ID))
	}
	return w.Flush()
}

func (c *cli) featured(ctx context.Context, _ []string) error {
	items, source, err := c.sf.Catalog.FeaturedArtworks(ctx)
	if err != nil {
		return err
	}
	c.note(source)
	c.printArtworks(items)
	return nil
}

func (c *cli) categories(ctx context.Context, _ []string) error {
	items, source, err := c.sf.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	c.note(source)
	for _, cat := range items {
		fmt.Fprintln(c.out, cat)
	}
	return nil
}

func (c *cli) artists(ctx context.Context, args []string) error {
	fs := c.flags("artists")
	search := fs.String("search", "", "search term")
	area := fs.String("area", "", "area filter")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	result, source, err := c.sf.Catalog.ListArtists(ctx, api.ArtistQuery{
		Search: *search,
		Area:   *area,
		Page:   pagination.Params{Page: *page},
	})
	if err != nil {
		return err
	}
	c.note(source)
	w := c.table()
	fmt.Fprintln(w, "ID\tNAME\tAREA\tWORKS")
	for _, a := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", a.ID, a.Name, a.Area, a.ArtworkCount)
	}
	return w.Flush()
}

func (c *cli) artist(ctx context.Context, args []string) error {
	id, err := oneArg(args, "an artist id")
	if err != nil {
		return err
	}
	a, source, err := c.sf.Catalog.GetArtist(ctx, id)
	if err != nil {
		return err
	}
	works, _, err := c.sf.Catalog.ArtworksByArtist(ctx, id, pagination.Params{})
	if err != nil {
		return err
	}
	c.note(source)
	fmt.Fprintf(c.out, "%s (%s)\n%s\n\n", a.Name, a.Area, a.Bio)
	c.printArtworks(works.Items)
	return nil
}
