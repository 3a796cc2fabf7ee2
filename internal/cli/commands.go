package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"presensi.client/internal/core/model"
)

func (a *App) login(ctx context.Context, args []string, out io.Writer) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("%w: login needs -email and -password", ErrUsage)
	}

	res, err := a.auth.Login(ctx, model.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, res.Data.Token, res.Data.User); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	log.Ctx(ctx).Debug().Str("user_id", res.Data.User.ID).Msg("Signed in")

	return printJSON(out, model.Response[model.User]{Success: res.Success, Message: res.Message, Data: res.Data.User})
}

func (a *App) logout(ctx context.Context, args []string, out io.Writer) error {
	if _, err := parse(a.flags("logout"), args); err != nil {
		return err
	}
	if err := a.session.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return printJSON(out, model.Response[model.Empty]{Success: true, Message: "Logout berhasil"})
}

func (a *App) register(ctx context.Context, args []string, out io.Writer) error {
	fs := a.flags("register")
	var req model.RegisterRequest
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", "", "account password")
	fs.StringVar(&req.Nama, "nama", "", "full name")
	fs.StringVar(&req.Role, "role", "", "admin or employee")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	res, err := a.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(out, res)
}

// whoami fetches the profile and stores it as the session user.
func (a *App) whoami(ctx context.Context, args []string, out io.Writer) error {
	if _, err := parse(a.flags("whoami"), args); err != nil {
		return err
	}
	res, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}
	if err := a.session.UpdateUser(ctx, res.Data); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return printJSON(out, res)
}

func (a *App) changePassword(ctx context.Context, args []string, out io.Writer) error {
	fs := a.flags("change-password")
	var req model.ChangePasswordRequest
	fs.StringVar(&req.OldPassword, "old", "", "current password")
	fs.StringVar(&req.NewPassword, "new", "", "new password")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	res, err := a.auth.ChangePassword(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(out, res)
}

func (a *App) usersCmd(ctx context.Context, args []string, out io.Writer) error {
	return subcommand("users", args, map[string]func([]string) error{
		"list": func(args []string) error {
			fs := a.flags("users list")
			page := fs.Int("page", 1, "page number")
			limit := fs.Int("limit", 10, "page size")
			if _, err := parse(fs, args); err != nil {
				return err
			}
			res, err := a.users.List(ctx, *page, *limit)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"get": func(args []string) error {
			pos, err := parse(a.flags("users get"), args, "id")
			if err != nil {
				return err
			}
			res, err := a.users.Get(ctx, pos[0])
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"status": func(args []string) error {
			fs := a.flags("users status")
			active := fs.Bool("active", true, "whether the account may sign in")
			pos, err := parse(fs, args, "id")
			if err != nil {
				return err
			}
			res, err := a.users.UpdateStatus(ctx, pos[0], *active)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
	})
}

func (a *App) presensiCmd(ctx context.Context, args []string, out io.Writer) error {
	return subcommand("presensi", args, map[string]func([]string) error{
		"list": func(args []string) error {
			fs := a.flags("presensi list")
			var f model.PresensiFilter
			var status string
			fs.StringVar(&f.UserID, "user", "", "only records of this user id")
			fs.StringVar(&status, "status", "", "only records with this status")
			fs.StringVar(&f.StartDate, "start", "", "first date, YYYY-MM-DD")
			fs.StringVar(&f.EndDate, "end", "", "last date, YYYY-MM-DD")
			fs.IntVar(&f.Page, "page", 0, "page number")
			fs.IntVar(&f.Limit, "limit", 0, "page size")
			if _, err := parse(fs, args); err != nil {
				return err
			}
			f.Status = model.StatusPresensi(status)

			res, err := a.presensi.List(ctx, f)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"get": func(args []string) error {
			pos, err := parse(a.flags("presensi get"), args, "id")
			if err != nil {
				return err
			}
			res, err := a.presensi.Get(ctx, pos[0])
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"create": func(args []string) error {
			fs := a.flags("presensi create")
			var req model.CreatePresensiRequest
			var status string
			var lat, lon optionalFloat
			fs.StringVar(&req.UserID, "user", "", "owner user id, defaults to the signed-in user")
			fs.StringVar(&req.Nama, "nama", "", "display name")
			fs.StringVar(&status, "status", "", "attendance status")
			fs.StringVar(&req.Keterangan, "keterangan", "", "note")
			fs.Var(&lat, "lat", "latitude")
			fs.Var(&lon, "lon", "longitude")
			fs.StringVar(&req.Alamat, "alamat", "", "address")
			if _, err := parse(fs, args); err != nil {
				return err
			}
			if status != "" && !model.StatusPresensi(status).Valid() {
				return fmt.Errorf("%w: unknown status %q", ErrUsage, status)
			}
			req.Status = model.StatusPresensi(status)
			req.Latitude, req.Longitude = lat.value, lon.value

			res, err := a.presensi.Create(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"update": func(args []string) error {
			fs := a.flags("presensi update")
			var status string
			var note optionalString
			fs.StringVar(&status, "status", "", "new attendance status")
			fs.Var(&note, "keterangan", "new note")
			pos, err := parse(fs, args, "id")
			if err != nil {
				return err
			}
			if status != "" && !model.StatusPresensi(status).Valid() {
				return fmt.Errorf("%w: unknown status %q", ErrUsage, status)
			}

			res, err := a.presensi.Update(ctx, pos[0], model.UpdatePresensiRequest{
				Status:     model.StatusPresensi(status),
				Keterangan: note.value,
			})
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"delete": func(args []string) error {
			pos, err := parse(a.flags("presensi delete"), args, "id")
			if err != nil {
				return err
			}
			res, err := a.presensi.Delete(ctx, pos[0])
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"checkin": func(args []string) error {
			fs := a.flags("presensi checkin")
			withLocation := fs.Bool("location", false, "attach the current position")
			pos, err := parse(fs, args, "id")
			if err != nil {
				return err
			}
			res, err := a.attendance.CheckIn(ctx, pos[0], *withLocation)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"checkout": func(args []string) error {
			fs := a.flags("presensi checkout")
			withLocation := fs.Bool("location", false, "attach the current position")
			pos, err := parse(fs, args, "id")
			if err != nil {
				return err
			}
			res, err := a.attendance.CheckOut(ctx, pos[0], *withLocation)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
	})
}

func (a *App) analyticsCmd(ctx context.Context, args []string, out io.Writer) error {
	return subcommand("analytics", args, map[string]func([]string) error{
		"summary": func(args []string) error {
			if _, err := parse(a.flags("analytics summary"), args); err != nil {
				return err
			}
			res, err := a.analytics.Summary(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"daily": func(args []string) error {
			fs := a.flags("analytics daily")
			date := fs.String("date", "", "day, YYYY-MM-DD")
			if _, err := parse(fs, args); err != nil {
				return err
			}
			res, err := a.analytics.Daily(ctx, *date)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"monthly": func(args []string) error {
			fs := a.flags("analytics monthly")
			month := fs.String("month", "", "month, YYYY-MM")
			if _, err := parse(fs, args); err != nil {
				return err
			}
			res, err := a.analytics.Monthly(ctx, *month)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"user": func(args []string) error {
			pos, err := parse(a.flags("analytics user"), args, "id")
			if err != nil {
				return err
			}
			res, err := a.analytics.User(ctx, pos[0])
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
		"status": func(args []string) error {
			if _, err := parse(a.flags("analytics status"), args); err != nil {
				return err
			}
			res, err := a.analytics.StatusBreakdown(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
	})
}

func (a *App) locate(ctx context.Context, args []string, out io.Writer) error {
	if _, err := parse(a.flags("locate"), args); err != nil {
		return err
	}
	pos, err := a.geo.GetCurrentPosition(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, pos)
}
