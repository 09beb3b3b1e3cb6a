// cmd/server/user.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tennisverein/courtbook/internal/api/auth"
	"github.com/tennisverein/courtbook/internal/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage club members",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE:  runUserList,
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an active user",
	RunE:  runUserCreate,
}

var userActivateCmd = &cobra.Command{
	Use:   "activate [email]",
	Short: "Activate a registered user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserActivate,
}

var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password [email]",
	Short: "Set a new password for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserResetPassword,
}

var (
	userEmail    string
	userName     string
	userPassword string
	userAdmin    bool
)

const cliTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userActivateCmd)
	userCmd.AddCommand(userResetPasswordCmd)

	userCreateCmd.Flags().StringVarP(&userEmail, "email", "e", "", "User email (required)")
	userCreateCmd.Flags().StringVarP(&userName, "name", "n", "", "Display name (required)")
	userCreateCmd.Flags().StringVarP(&userPassword, "password", "p", "", "User password (required)")
	userCreateCmd.Flags().BoolVar(&userAdmin, "admin", false, "Grant administrator rights")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("name")
	userCreateCmd.MarkFlagRequired("password")

	userResetPasswordCmd.Flags().StringVarP(&userPassword, "password", "p", "", "New password (required)")
	userResetPasswordCmd.MarkFlagRequired("password")
}

func runUserList(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	rows, err := database.Queries.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tADMIN\tACTIVE\tCREATED")
	for _, row := range rows {
		u := models.UserFromRow(row)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Email, u.Name, yesNo(u.IsAdmin), yesNo(u.IsActive), u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	reg := models.Registration{Name: userName, Email: userEmail, Password: userPassword}
	if err := models.ValidateRegistration(&reg); err != nil {
		return err
	}

	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	user, err := models.CreateUser(ctx, database.Queries, models.NewUser{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hash,
		IsAdmin:      userAdmin,
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("create user %s: %w", reg.Email, err)
	}

	fmt.Printf("User %s created (id %d, admin %s)\n", user.Email, user.ID, yesNo(user.IsAdmin))
	return nil
}

func runUserActivate(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	user, err := models.SetUserActive(ctx, database.Queries, strings.TrimSpace(args[0]), true)
	if err != nil {
		return fmt.Errorf("activate %s: %w", args[0], err)
	}
	fmt.Printf("User %s activated\n", user.Email)
	return nil
}

func runUserResetPassword(cmd *cobra.Command, args []string) error {
	in := models.PasswordReset{Email: args[0], Password: userPassword}
	if err := models.ValidatePasswordReset(&in); err != nil {
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	if err := models.SetUserPassword(ctx, database.Queries, in.Email, hash); err != nil {
		return fmt.Errorf("reset password for %s: %w", in.Email, err)
	}
	fmt.Printf("Password for %s updated\n", in.Email)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
