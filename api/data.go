package main

import "time"

type registerInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// taskInput uses pointers so a missing field is told apart from an empty one.
type taskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}
