// Command console is a small operator tool for the relay: it lists known
// users, dumps or searches conversations through the HTTP API, and can watch
// a live connection.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"
)

type messageRecord struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	Lang      string    `json:"lang"`
	At        time.Time `json:"at"`
}

type userRecord struct {
	Identity    string    `json:"identity"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "relay base address")
	flag.Parse()

	var err error
	switch flag.Arg(0) {
	case "users":
		err = listUsers(*addr)
	case "history":
		if flag.NArg() != 3 {
			usage()
		}
		err = history(*addr, flag.Arg(1), flag.Arg(2))
	case "search":
		if flag.NArg() != 4 {
			usage()
		}
		err = search(*addr, flag.Arg(1), flag.Arg(2), flag.Arg(3))
	case "watch":
		if flag.NArg() != 2 {
			usage()
		}
		err = watch(*addr, flag.Arg(1))
	default:
		usage()
	}
	if err != nil {
		color.Red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: console [-addr URL] users | history <user1> <user2> | search <user1> <user2> <query> | watch <identity>")
	os.Exit(2)
}

func listUsers(addr string) error {
	var users []userRecord
	if err := fetchJSON(addr+"/users", &users); err != nil {
		return err
	}

	color.Green.Println("Known users")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Identity", "Display Name", "Email", "Since"})
	for _, u := range users {
		table.Append([]string{u.Identity, u.DisplayName, u.Email, u.CreatedAt.Format(time.RFC3339)})
	}
	table.Render()
	return nil
}

func history(addr, user1, user2 string) error {
	query := url.Values{"user1": {user1}, "user2": {user2}}
	var messages []messageRecord
	if err := fetchJSON(addr+"/messages?"+query.Encode(), &messages); err != nil {
		return err
	}
	renderMessages(fmt.Sprintf("Conversation %s <-> %s", user1, user2), messages)
	return nil
}

func search(addr, user1, user2, q string) error {
	query := url.Values{"user1": {user1}, "user2": {user2}, "q": {q}}
	var messages []messageRecord
	if err := fetchJSON(addr+"/messages/search?"+query.Encode(), &messages); err != nil {
		return err
	}
	renderMessages(fmt.Sprintf("Matches for %q", q), messages)
	return nil
}

// watch opens a live connection for the given identity and prints every
// event the relay pushes, until interrupted.
func watch(addr, identity string) error {
	wsURL := strings.Replace(addr, "http", "ws", 1) +
		"/ws?" + url.Values{"identity": {identity}}.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	color.Green.Printf("Watching as %s (Ctrl-C to stop)\n", identity)
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			continue
		}
		switch env.Type {
		case "receive-message":
			var msg messageRecord
			if err := json.Unmarshal(env.Data, &msg); err == nil {
				color.Cyan.Printf("[%s] %s -> %s: ", msg.At.Format("15:04:05"), msg.Sender, msg.Recipient)
				fmt.Println(msg.Body)
			}
		case "online-users":
			var online []string
			if err := json.Unmarshal(env.Data, &online); err == nil {
				color.Yellow.Printf("online: %s\n", strings.Join(online, ", "))
			}
		}
	}
}

func renderMessages(title string, messages []messageRecord) {
	color.Green.Println(title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Sender", "Body", "Lang"})
	for _, msg := range messages {
		table.Append([]string{msg.At.Format(time.RFC3339), msg.Sender, msg.Body, msg.Lang})
	}
	table.Render()
}

func fetchJSON(rawURL string, out any) error {
	resp, err := http.Get(rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
