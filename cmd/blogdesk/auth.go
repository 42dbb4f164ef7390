package main

import (
	"github.com/spf13/cobra"

	handlers "blogdesk/internal/handler"
)

var (
	signupInput   handlers.SignupInput
	loginEmail    string
	loginPassword string
	refreshMe     bool
	profileName   string
	profileBio    string
	profileImage  string
	passwordInput handlers.PasswordInput
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Signup(cmd.Context(), signupInput)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Login(cmd.Context(), loginEmail, loginPassword)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in user",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.WhoAmI(cmd.Context(), refreshMe)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your name, bio or profile image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := handlers.ProfileInput{ImagePath: profileImage}
		if cmd.Flags().Changed("name") {
			in.FullName = &profileName
		}
		if cmd.Flags().Changed("bio") {
			in.Bio = &profileBio
		}
		return h.UpdateProfile(cmd.Context(), in)
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return h.ChangePassword(cmd.Context(), passwordInput)
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupInput.Username, "username", "", "username (3-30 letters or digits)")
	signupCmd.Flags().StringVar(&signupInput.Email, "email", "", "email address")
	signupCmd.Flags().StringVar(&signupInput.FullName, "name", "", "full name")
	signupCmd.Flags().StringVar(&signupInput.Password, "password", "", "password, prompted when omitted")
	signupCmd.Flags().StringVar(&signupInput.ConfirmPassword, "confirm-password", "", "password again, prompted when omitted")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address, prompted when omitted")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password, prompted when omitted")

	whoamiCmd.Flags().BoolVar(&refreshMe, "refresh", false, "reload the profile from the server")

	profileCmd.Flags().StringVar(&profileName, "name", "", "full name")
	profileCmd.Flags().StringVar(&profileBio, "bio", "", "short bio")
	profileCmd.Flags().StringVar(&profileImage, "image", "", "path of a new profile image")

	passwordCmd.Flags().StringVar(&passwordInput.Current, "current", "", "current password, prompted when omitted")
	passwordCmd.Flags().StringVar(&passwordInput.New, "new", "", "new password, prompted when omitted")
	passwordCmd.Flags().StringVar(&passwordInput.Confirm, "confirm", "", "new password again, prompted when omitted")

	RootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd, profileCmd, passwordCmd)
}
