package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus(ctx context.Context) string {
	s := ""
	if u, ok := a.gateway.CurrentUser(ctx); ok {
		s = u.Email + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to FieldSync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	for {
		fmt.Printf("fieldsync %s> ", a.getStatus(ctx))
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				fmt.Println("Available commands: status, dashboard, weather [station], irrigation, zone, alerts, photo <path>, track on|off, sync, export, reset, logout, exit")
			} else {
				fmt.Println("Available commands: login, status, dashboard, weather, irrigation, zone, exit")
			}

		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "status":
			a.status(ctx)
		case "dashboard":
			a.dashboard(ctx)
		case "weather":
			station := ""
			if len(args) > 0 {
				station = args[0]
			}
			a.weather(ctx, station)
		case "irrigation":
			a.irrigation(ctx)
		case "zone":
			a.zone(ctx)
		case "alerts":
			a.alerts(ctx)
		case "photo":
			if len(args) == 0 {
				fmt.Println("Usage: photo <path> [crop] [notes...]")
				continue
			}
			crop, notes := "", ""
			if len(args) > 1 {
				crop = args[1]
			}
			if len(args) > 2 {
				notes = strings.Join(args[2:], " ")
			}
			a.photo(ctx, args[0], crop, notes)
		case "track":
			if len(args) == 0 {
				fmt.Println("Usage: track on|off")
				continue
			}
			a.track(ctx, args[0])
		case "sync":
			a.sync(ctx)
		case "export":
			a.export(ctx)
		case "reset":
			a.reset(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
