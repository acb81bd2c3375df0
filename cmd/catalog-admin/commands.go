package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/app"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/auth"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/console"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/product"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/export"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/pkg/health"
)

const (
	// maxParallelRemovals bounds concurrent remove requests.
	maxParallelRemovals = 4
	statusTimeout       = 10 * time.Second
)

const usage = `usage: catalog-admin <command> [flags]

commands:
  login     -identifier EMAIL_OR_PHONE [-password PASSWORD]
  signup    -name NAME -email EMAIL -phone PHONE [-password PASSWORD -confirm PASSWORD]
  logout
  list
  add       -name NAME -price PRICE -image FILE [-description TEXT -category CAT -discount N -weight KG]
  update    ID [-name NAME -description TEXT -category CAT -price PRICE -discount N -weight KG -image FILE]
  remove    ID...
  export    -out FILE
  status
`

// printer reports notifications on a terminal. It is safe for concurrent use.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) Notify(n console.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, "%s: %s\n", n.Level, n.Message)
}

type cli struct {
	c      *app.Console
	notify console.Notifier
	in     *bufio.Reader
	out    io.Writer
}

func newCLI(c *app.Console, n console.Notifier, in io.Reader, out io.Writer) *cli {
	return &cli{c: c, notify: n, in: bufio.NewReader(in), out: out}
}

func (c *cli) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		_, _ = io.WriteString(c.out, usage)
		return errors.New("no command given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return c.login(ctx, rest)
	case "signup":
		return c.signup(ctx, rest)
	case "logout":
		return c.logout()
	case "list":
		return c.list(ctx)
	case "add":
		return c.add(ctx, rest)
	case "update":
		return c.update(ctx, rest)
	case "remove":
		return c.remove(ctx, rest)
	case "export":
		return c.export(ctx, rest)
	case "status":
		return c.status(ctx)
	case "help", "-h", "--help":
		_, _ = io.WriteString(c.out, usage)
		return nil
	default:
		_, _ = io.WriteString(c.out, usage)
		return errors.Errorf("unknown command %q", cmd)
	}
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	var cred auth.Credentials
	fs.StringVar(&cred.Identifier, "identifier", "", "email address or phone number")
	fs.StringVar(&cred.Password, "password", "", "password (read from stdin when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cred.Password == "" {
		cred.Password = c.readLine()
	}

	s, err := c.c.Auth.Login(ctx, cred)
	if err != nil {
		c.fail(err)
		return err
	}
	return c.saveSession(s, "Login successful")
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	var reg auth.Registration
	fs.StringVar(&reg.Name, "name", "", "full name")
	fs.StringVar(&reg.Email, "email", "", "email address")
	fs.StringVar(&reg.Phone, "phone", "", "phone number")
	fs.StringVar(&reg.Password, "password", "", "password (read from stdin when omitted)")
	fs.StringVar(&reg.Confirm, "confirm", "", "password confirmation (read from stdin when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if reg.Password == "" {
		reg.Password = c.readLine()
	}
	if reg.Confirm == "" {
		reg.Confirm = c.readLine()
	}

	s, err := c.c.Auth.Signup(ctx, reg)
	if err != nil {
		c.fail(err)
		return err
	}
	return c.saveSession(s, "Registration successful")
}

func (c *cli) saveSession(s auth.Session, fallback string) error {
	if err := c.c.Tokens.Save(s.Token); err != nil {
		return errors.Wrap(err, "save token")
	}
	msg := s.Message
	if msg == "" {
		msg = fallback
	}
	c.notify.Notify(console.Notification{Level: console.LevelSuccess, Message: msg})
	return nil
}

func (c *cli) logout() error {
	if err := c.c.Tokens.Clear(); err != nil {
		return err
	}
	c.notify.Notify(console.Notification{Level: console.LevelSuccess, Message: "Logged out"})
	return nil
}

func (c *cli) list(ctx context.Context) error {
	v := c.c.View
	if err := v.Open(ctx); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tDISCOUNT\tWEIGHT\tIMAGE")
	for _, r := range v.Rows() {
		discount := ""
		if r.Discount > 0 {
			discount = strconv.Itoa(r.Discount) + "%"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Category, r.Price, discount, r.Weight, r.ImageURL)
	}
	return tw.Flush()
}

// draftFlags registers the text fields of a draft on fs.
func draftFlags(fs *flag.FlagSet) (map[product.Field]*string, *string) {
	fields := map[product.Field]*string{
		product.FieldName:        fs.String("name", "", "product name"),
		product.FieldDescription: fs.String("description", "", "product description"),
		product.FieldCategory:    fs.String("category", "", "one of "+categoryList()),
		product.FieldPrice:       fs.String("price", "", "price"),
		product.FieldDiscount:    fs.String("discount", "", "discount percent (0-100)"),
		product.FieldWeight:      fs.String("weight", "", "weight in kg"),
	}
	return fields, fs.String("image", "", "path of an image file to upload")
}

func categoryList() string {
	names := make([]string, 0, 4)
	for _, c := range product.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func (c *cli) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fields, imagePath := draftFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := c.c.View.Form()
	for f, v := range fields {
		if *v == "" {
			continue
		}
		if err := form.Set(f, *v); err != nil {
			return err
		}
	}
	if *imagePath != "" {
		img, err := loadImage(*imagePath)
		if err != nil {
			c.fail(err)
			return err
		}
		form.SelectImage(img)
	}

	if badge, ok := form.Badge(); ok {
		_, _ = fmt.Fprintf(c.out, "Badge: %s\n", badge)
	}
	_, err := c.c.View.Create(ctx)
	return err
}

func (c *cli) update(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errors.New("update: product ID required")
	}
	id := args[0]

	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fields, imagePath := draftFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	v := c.c.View
	if err := v.Open(ctx); err != nil {
		return err
	}
	if err := v.Edit(id); err != nil {
		return err
	}

	// Only flags given on the command line change the draft.
	var setErr error
	fs.Visit(func(fl *flag.Flag) {
		p, ok := fields[product.Field(fl.Name)]
		if !ok || setErr != nil {
			return
		}
		setErr = v.Change(product.Field(fl.Name), *p)
	})
	if setErr != nil {
		return setErr
	}
	if *imagePath != "" {
		img, err := loadImage(*imagePath)
		if err != nil {
			c.fail(err)
			return err
		}
		if err := v.ChooseImage(img); err != nil {
			return err
		}
	}

	_, err := v.Save(ctx)
	return err
}

// remove deletes several products concurrently. Every removal re-fetches
// the list on its own; the last one to finish leaves the final list.
func (c *cli) remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return errors.New("remove: at least one product ID required")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRemovals)
	var (
		mu     sync.Mutex
		failed []string
	)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := c.c.View.Delete(ctx, id); err != nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(failed) > 0 {
		return errors.Errorf("remove failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func (c *cli) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("out", "catalog.json.gz", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := c.c.View
	if err := v.Open(ctx); err != nil {
		return err
	}
	products := c.c.Store.Products()

	f, err := os.Create(*out)
	if err != nil {
		return errors.Wrap(err, "create export file")
	}
	if err := export.Write(f, export.Snapshot{ExportedAt: time.Now(), Products: products}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close export file")
	}

	c.notify.Notify(console.Notification{
		Level:   console.LevelSuccess,
		Message: fmt.Sprintf("Exported %d products to %s", len(products), *out),
	})
	return nil
}

func (c *cli) status(ctx context.Context) error {
	r := health.Run(ctx,
		health.Check{Name: "catalog", Timeout: statusTimeout, Func: c.c.Store.Refresh},
		health.Check{Name: "token", Timeout: statusTimeout, Func: health.TokenCheck(c.c.Tokens)},
	)

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CHECK\tSTATUS\tTIME")
	for _, res := range r.Results {
		state := "ok"
		if res.Err != nil {
			state = describeCheck(res.Err)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", res.Name, state, res.Duration.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !r.Healthy() {
		return errors.Errorf("unhealthy: %d of %d checks failed", len(r.Failures()), len(r.Results))
	}
	return nil
}

func describeCheck(err error) string {
	if errors.Is(err, health.ErrNoToken) {
		return "not logged in"
	}
	return describe(err)
}

func loadImage(path string) (*product.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	return product.NewImage(filepath.Base(path), data)
}

func (c *cli) readLine() string {
	line, _ := c.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func (c *cli) fail(err error) {
	c.notify.Notify(console.Notification{Level: console.LevelError, Message: describe(err)})
}

// describe extends console.Reason with the sign-in failures.
func describe(err error) string {
	var fe *auth.FieldsError
	switch {
	case errors.As(err, &fe):
		return fe.Error()
	case errors.Is(err, auth.ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, auth.ErrNoToken):
		return "Login failed"
	default:
		return console.Reason(err)
	}
}
