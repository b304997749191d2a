// models.go
package main

// Credential represents one stored login entry. The field set matches the
// backup JSON format, so the struct doubles as the wire model.
type Credential struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Category is a legacy free-text field kept for backup compatibility.
	// Filtering uses Type.
	Category string `json:"category"`
	Type     string `json:"type"`
	Notes    string `json:"notes"`
	Favorite bool   `json:"favorite"`
}

// CustomType is a user-defined category.
type CustomType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is a row of the effective visible category list, built-in or
// custom.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}
