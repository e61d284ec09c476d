// Command console runs the interactive terminal frontend. It drives the same
// bus and services as the API server, with a logged-in user held in memory
// for the lifetime of the session.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"wareflow/internal/app"
	"wareflow/internal/audit"
	"wareflow/internal/command"
	"wareflow/internal/config"
	"wareflow/internal/model"
	"wareflow/internal/service"
	"wareflow/internal/store"
)

const divider = "============================================================"
const rule = "------------------------------------------------------------"

type console struct {
	app     *app.App
	scanner *bufio.Scanner
	user    *model.User
	userID  string
}

func main() {
	cfg := config.MustLoad()

	st, err := app.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	auditLog, err := audit.NewWithFile(os.Stdout, cfg.Audit.FilePath)
	if err != nil {
		log.Fatalf("Failed to open audit log: %v", err)
	}
	defer auditLog.Close()

	c := &console{
		app:     app.New(st, auditLog, os.Stdout),
		scanner: bufio.NewScanner(os.Stdin),
	}

	fmt.Println(divider)
	fmt.Println("USER AND WAREHOUSE MANAGEMENT SYSTEM")
	fmt.Println(divider)

	c.run()
}

func (c *console) run() {
	for {
		fmt.Println("\n" + divider)
		if c.user != nil {
			fmt.Printf("Current user: %s (%s)\n", c.userID, c.user.Role)
		} else {
			fmt.Println("Not logged in")
		}
		fmt.Println(divider)
		fmt.Println("\nChoose an action:")

		switch {
		case c.user == nil:
			fmt.Println("1. Register a new user")
			fmt.Println("2. Log in")
			fmt.Println("0. Exit")

			switch c.prompt("\nEnter choice: ") {
			case "1":
				c.register()
			case "2":
				c.login()
			case "0":
				c.goodbye()
				return
			default:
				fmt.Println("Invalid choice")
			}

		case c.user.Role == model.RoleAdmin:
			fmt.Println("1. View inventory")
			fmt.Println("2. Manage inventory")
			fmt.Println("3. Create an order")
			fmt.Println("4. Log out")
			fmt.Println("0. Exit")

			switch c.prompt("\nEnter choice: ") {
			case "1":
				c.viewInventory()
			case "2":
				c.manageInventory()
			case "3":
				c.createOrder()
			case "4":
				c.logout()
			case "0":
				c.goodbye()
				return
			default:
				fmt.Println("Invalid choice")
			}

		default:
			fmt.Println("1. View inventory")
			fmt.Println("2. Create an order")
			fmt.Println("3. Log out")
			fmt.Println("0. Exit")

			switch c.prompt("\nEnter choice: ") {
			case "1":
				c.viewInventory()
			case "2":
				c.createOrder()
			case "3":
				c.logout()
			case "0":
				c.goodbye()
				return
			default:
				fmt.Println("Invalid choice")
			}
		}
	}
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	if !c.scanner.Scan() {
		return "0"
	}
	return strings.TrimSpace(c.scanner.Text())
}

func (c *console) goodbye() {
	fmt.Println("\n" + divider)
	fmt.Println("Exiting... Goodbye!")
	fmt.Println(divider)
}

func (c *console) register() {
	fmt.Println("\n" + rule)
	fmt.Println("NEW USER REGISTRATION")
	fmt.Println(rule)

	username := c.prompt("Username: ")
	if username == "" {
		return
	}

	password := c.prompt("Password: ")
	if password == "" {
		fmt.Println("Error: password cannot be empty.")
		return
	}

	fmt.Println("\nChoose a role:")
	fmt.Println("1. admin")
	fmt.Println("2. user")
	role := model.RoleUser
	if c.prompt("Enter number (default 2): ") == "1" {
		role = model.RoleAdmin
	}

	email := c.prompt("Email (optional): ")

	err := c.app.Serialize(func() error {
		return c.app.Auth.Register(context.Background(), command.Register{
			Username: username,
			Password: password,
			Role:     role,
			Email:    email,
		})
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func (c *console) login() {
	fmt.Println("\n" + rule)
	fmt.Println("LOG IN")
	fmt.Println(rule)

	username := c.prompt("Username: ")
	password := c.prompt("Password: ")

	var user model.User
	err := c.app.Serialize(func() error {
		var loginErr error
		user, loginErr = c.app.Auth.Login(context.Background(), command.Login{
			Username: username,
			Password: password,
		})
		return loginErr
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	c.user = &user
	c.userID = username
	fmt.Printf("\nWelcome, %s! Role: %s\n", username, user.Role)
}

func (c *console) logout() {
	c.app.Audit.Log("LOGOUT", c.userID, "")
	fmt.Printf("User %s logged out\n", c.userID)
	c.user = nil
	c.userID = ""
}

func (c *console) loadInventory() map[string]model.InventoryItem {
	inventory := make(map[string]model.InventoryItem)
	err := c.app.Serialize(func() error {
		return c.app.Store.Load(context.Background(), store.Inventory, &inventory)
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil
	}
	return inventory
}

func (c *console) viewInventory() {
	fmt.Println("\n" + rule)
	fmt.Println("CURRENT INVENTORY")
	fmt.Println(rule)

	inventory := c.loadInventory()
	if len(inventory) == 0 {
		fmt.Println("Inventory is empty")
		return
	}

	fmt.Printf("\n%-30s %-15s %-15s\n", "Item", "Quantity", "Price")
	fmt.Println(rule)

	for name, item := range inventory {
		reserved := 0
		for _, res := range item.Reserved {
			reserved += res.Quantity
		}

		status := fmt.Sprintf("%d pcs", item.Quantity)
		if reserved > 0 {
			status += fmt.Sprintf(" (%d)", reserved)
		}

		fmt.Printf("%-30s %-15s %-15.2f\n", name, status, item.Price)
	}

	fmt.Println(rule)
}

func (c *console) manageInventory() {
	fmt.Println("\n" + rule)
	fmt.Println("INVENTORY MANAGEMENT")
	fmt.Println(rule)
	fmt.Println("1. Add item")
	fmt.Println("2. Update item")
	fmt.Println("3. Remove item")
	fmt.Println("0. Back")

	switch c.prompt("\nEnter choice: ") {
	case "1":
		c.addItem()
	case "2":
		c.updateItem()
	case "3":
		c.removeItem()
	case "0":
		return
	default:
		fmt.Println("Invalid choice.")
	}
}

func (c *console) addItem() {
	fmt.Println("\n--- Add item ---")

	name := c.prompt("Item name: ")
	if name == "" {
		fmt.Println("Error: item name cannot be empty.")
		return
	}

	quantity, err := strconv.Atoi(c.prompt("Quantity: "))
	if err != nil {
		fmt.Println("Invalid input")
		return
	}
	price, err := strconv.ParseFloat(c.prompt("Price per unit: "), 64)
	if err != nil {
		fmt.Println("Invalid input")
		return
	}

	err = c.app.Send(context.Background(), service.PurchaseName, command.AddItem{
		Username: c.userID,
		ItemName: name,
		Quantity: quantity,
		Price:    price,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func (c *console) updateItem() {
	fmt.Println("\n--- Update item ---")

	inventory := c.loadInventory()
	if len(inventory) == 0 {
		fmt.Println("Inventory is empty")
		return
	}

	fmt.Println("\nCurrent inventory:")
	for name, item := range inventory {
		fmt.Printf("  - %s: %d pcs, %.2f\n", name, item.Quantity, item.Price)
	}

	name := c.prompt("\nItem to update: ")
	item, exists := inventory[name]
	if !exists {
		fmt.Printf("Error: item '%s' not found.\n", name)
		return
	}

	fmt.Printf("\nCurrent values: %d pcs, %.2f\n", item.Quantity, item.Price)

	cmd := command.UpdateItem{Username: c.userID, ItemName: name}

	if raw := c.prompt("New quantity (Enter to keep): "); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Println("Error: enter valid values.")
			return
		}
		cmd.Quantity = &quantity
	}
	if raw := c.prompt("New price (Enter to keep): "); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fmt.Println("Error: enter valid values.")
			return
		}
		cmd.Price = &price
	}

	if err := c.app.Send(context.Background(), service.PurchaseName, cmd); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func (c *console) removeItem() {
	fmt.Println("\n--- Remove item ---")

	inventory := c.loadInventory()
	if len(inventory) == 0 {
		fmt.Println("Inventory is empty")
		return
	}

	fmt.Println("\nCurrent inventory:")
	for name, item := range inventory {
		fmt.Printf("  - %s: %d pcs\n", name, item.Quantity)
	}

	name := c.prompt("\nItem to remove: ")

	confirm := strings.ToLower(c.prompt(fmt.Sprintf("Are you sure you want to remove '%s'? (yes/no): ", name)))
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Removal cancelled")
		return
	}

	err := c.app.Send(context.Background(), service.PurchaseName, command.RemoveItem{
		Username: c.userID,
		ItemName: name,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func (c *console) createOrder() {
	fmt.Println("\n" + rule)
	fmt.Println("CREATE ORDER")
	fmt.Println(rule)

	inventory := c.loadInventory()
	if len(inventory) == 0 {
		fmt.Println("Inventory is empty. Cannot create an order")
		return
	}

	fmt.Println("\nAvailable items:")
	for name, item := range inventory {
		fmt.Printf("  - %s: %d pcs, %.2f\n", name, item.Quantity, item.Price)
	}

	var items []model.OrderItem

	for {
		fmt.Println("\n--- Add item to order ---")
		name := c.prompt("Item name (or 'done' to finish): ")

		if strings.ToLower(name) == "done" {
			break
		}

		stock, exists := inventory[name]
		if !exists {
			fmt.Printf("Item '%s' not found in inventory.\n", name)
			continue
		}

		quantity, err := strconv.Atoi(c.prompt(fmt.Sprintf("Quantity of '%s': ", name)))
		if err != nil {
			fmt.Println("Enter a valid number")
			continue
		}
		if quantity <= 0 {
			fmt.Println("Quantity must be positive.")
			continue
		}
		if quantity > stock.Quantity {
			fmt.Printf("Insufficient stock. Available: %d\n", stock.Quantity)
			continue
		}

		items = append(items, model.OrderItem{ItemName: name, Quantity: quantity})
		fmt.Printf("Added: %s x%d\n", name, quantity)
	}

	if len(items) == 0 {
		fmt.Println("Order is empty. Cancelled")
		return
	}

	fmt.Println("\n" + rule)
	fmt.Println("ORDER SUMMARY:")
	total := 0.0
	for _, item := range items {
		price := inventory[item.ItemName].Price
		lineTotal := price * float64(item.Quantity)
		total += lineTotal
		fmt.Printf("  %s: %d pcs x %.2f = %.2f\n", item.ItemName, item.Quantity, price, lineTotal)
	}
	fmt.Printf("\nTOTAL: %.2f\n", total)
	fmt.Println(rule)

	confirm := strings.ToLower(c.prompt("\nConfirm order? (yes/no): "))
	if confirm != "yes" && confirm != "y" {
		return
	}

	err := c.app.Serialize(func() error {
		_, createErr := c.app.Order.CreateOrder(context.Background(), command.CreateOrder{
			Username: c.userID,
			Items:    items,
		})
		return createErr
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}
