package dto

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
	Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type CreateAuthorRequest struct {
	Name      string `json:"name" binding:"required,min=2"`
	Bio       string `json:"bio"`
	BirthDate string `json:"birthDate" binding:"omitempty"`
}

type UpdateAuthorRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2"`
	Bio       *string `json:"bio"`
	BirthDate *string `json:"birthDate"`
}

type CreateBookRequest struct {
	Title         string `json:"title" binding:"required,min=1"`
	ISBN          string `json:"isbn" binding:"required,min=10"`
	PublishedDate string `json:"publishedDate" binding:"omitempty"`
	AuthorID      string `json:"authorId" binding:"required,uuid"`
}

type UpdateBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1"`
	ISBN          *string `json:"isbn" binding:"omitempty,min=10"`
	PublishedDate *string `json:"publishedDate"`
	AuthorID      *string `json:"authorId" binding:"omitempty,uuid"`
	Available     *bool   `json:"available"`
}

type CreateLoanRequest struct {
	BookID  string `json:"bookId" binding:"required,uuid"`
	UserID  string `json:"userId" binding:"required,uuid"`
	DueDate string `json:"dueDate" binding:"omitempty"`
}
