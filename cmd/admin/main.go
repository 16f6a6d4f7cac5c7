package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/interiorhaus/catalog-admin/internal/catalog"
	"github.com/interiorhaus/catalog-admin/internal/controller"
	"github.com/interiorhaus/catalog-admin/internal/media"
	"github.com/interiorhaus/catalog-admin/pkg/config"
	"github.com/interiorhaus/catalog-admin/pkg/enums"
	"github.com/interiorhaus/catalog-admin/pkg/logger"
	"github.com/joho/godotenv"
)

const usage = `usage: admin <command> [flags]

commands:
  list                      show the catalog
  create                    create a product
  update  -id <id>          update a product
  delete  -id <id> -yes     delete a product
  upload  -file <path> -kind <image|video>
                            upload a media file and print its reference
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	logg := logger.New(logger.Options{ServiceName: "admin"})
	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctrl, err := buildController(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to wire controller", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, ctrl, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "admin: %v\n", err)
		os.Exit(1)
	}
}

func buildController(cfg *config.Config, logg *logger.Logger) (*controller.Controller, error) {
	repo, err := catalog.NewRepository(cfg.API, logg)
	if err != nil {
		return nil, err
	}
	up, err := media.NewUploader(cfg.API, cfg.Media, logg)
	if err != nil {
		return nil, err
	}
	return controller.New(repo, up, cfg.API, cfg.Media, logg)
}

func run(ctx context.Context, ctrl *controller.Controller, command string, args []string) error {
	switch command {
	case "list":
		return runList(ctx, ctrl)
	case "create":
		return runCreate(ctx, ctrl, args)
	case "update":
		return runUpdate(ctx, ctrl, args)
	case "delete":
		return runDelete(ctx, ctrl, args)
	case "upload":
		return runUpload(ctx, ctrl, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runList(ctx context.Context, ctrl *controller.Controller) error {
	if err := ctrl.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: initial load failed (%v), catalog shown empty\n", err)
	}
	snap := ctrl.Snapshot()
	if len(snap.Products) == 0 {
		fmt.Println("catalog is empty")
		return nil
	}
	for _, p := range snap.Products {
		fmt.Printf("%s  %-24s  %8s  %-14s  %s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Brand, p.Category)
		if p.ImageURL != "" {
			fmt.Printf("    image: %s\n", ctrl.MediaURL(p.ImageURL))
		}
		if p.VideoURL != "" {
			fmt.Printf("    video: %s\n", ctrl.MediaURL(p.VideoURL))
		}
	}
	return nil
}

type productFlags struct {
	fs                                          *flag.FlagSet
	name, price, brand, category, desc, img, vid string
}

func newProductFlags(command string) *productFlags {
	pf := &productFlags{fs: flag.NewFlagSet(command, flag.ContinueOnError)}
	pf.fs.StringVar(&pf.name, "name", "", "product name")
	pf.fs.StringVar(&pf.price, "price", "", "price, e.g. 19.99")
	pf.fs.StringVar(&pf.brand, "brand", "", "brand")
	pf.fs.StringVar(&pf.category, "category", "", "category")
	pf.fs.StringVar(&pf.desc, "desc", "", "description")
	pf.fs.StringVar(&pf.img, "image", "", "image reference")
	pf.fs.StringVar(&pf.vid, "video", "", "video reference")
	return pf
}

// apply copies only the flags the operator actually set into the open form.
func (pf *productFlags) apply(ctrl *controller.Controller) error {
	byFlag := map[string]string{
		"name":     "product_name",
		"price":    "price_new",
		"brand":    "brand",
		"category": "category",
		"desc":     "description",
		"image":    "image_url",
		"video":    "video_url",
	}
	values := map[string]string{
		"name": pf.name, "price": pf.price, "brand": pf.brand,
		"category": pf.category, "desc": pf.desc, "image": pf.img, "video": pf.vid,
	}
	var applyErr error
	pf.fs.Visit(func(f *flag.Flag) {
		field, ok := byFlag[f.Name]
		if !ok || applyErr != nil {
			return
		}
		applyErr = ctrl.SetField(field, values[f.Name])
	})
	return applyErr
}

func runCreate(ctx context.Context, ctrl *controller.Controller, args []string) error {
	pf := newProductFlags("create")
	if err := pf.fs.Parse(args); err != nil {
		return err
	}
	ctrl.StartCreate()
	if err := pf.apply(ctrl); err != nil {
		return err
	}
	if err := ctrl.Submit(ctx); err != nil {
		return err
	}
	fmt.Println("product created")
	return runList(ctx, ctrl)
}

func runUpdate(ctx context.Context, ctrl *controller.Controller, args []string) error {
	pf := newProductFlags("update")
	id := pf.fs.String("id", "", "product id")
	if err := pf.fs.Parse(args); err != nil {
		return err
	}
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if err := ctrl.StartEdit(*id); err != nil {
		return err
	}
	if err := pf.apply(ctrl); err != nil {
		return err
	}
	if err := ctrl.Submit(ctx); err != nil {
		return err
	}
	fmt.Println("product updated")
	return nil
}

func runDelete(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "product id")
	yes := fs.Bool("yes", false, "confirm the deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("refusing to delete without -yes")
	}
	if err := ctrl.Delete(ctx, *id, *yes); err != nil {
		return err
	}
	fmt.Println("product deleted")
	return nil
}

func runUpload(ctx context.Context, ctrl *controller.Controller, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	file := fs.String("file", "", "path to the media file")
	kindFlag := fs.String("kind", "image", "image or video")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := enums.ParseMediaKind(*kindFlag)
	if err != nil {
		return err
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(*file))

	// The upload needs an open form to land its reference in.
	ctrl.StartCreate()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				snap := ctrl.Snapshot()
				if snap.Uploading[kind] {
					fmt.Printf("\ruploading… %3d%%", snap.Progress[kind])
				}
			}
		}
	}()

	err = ctrl.AttachMedia(ctx, media.Upload{
		Reader:      f,
		Filename:    filepath.Base(*file),
		ContentType: contentType,
		Size:        info.Size(),
		Kind:        kind,
	})
	close(done)
	fmt.Println()
	if err != nil {
		return err
	}

	snap := ctrl.Snapshot()
	var reference string
	if kind == enums.MediaKindVideo {
		reference = snap.Form.VideoURL
	} else {
		reference = snap.Form.ImageURL
	}
	fmt.Printf("reference: %s\nresolved:  %s\n", reference, ctrl.MediaURL(reference))
	return nil
}
