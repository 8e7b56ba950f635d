package todolist

import (
	"time"

	"github.com/Kyz7/teamhub/internal/database"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/response"
	"github.com/Kyz7/teamhub/internal/utils"
	"github.com/gofiber/fiber/v2"
)

func domainError(c *fiber.Ctx, err error) error {
	if rbac.IsNotFound(err) {
		return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	}
	return response.InternalError(c, "Operation failed")
}

func orgID(c *fiber.Ctx) uint {
	return c.Locals("organization_id").(uint)
}

func CreateListHandler(c *fiber.Ctx) error {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Name == "" {
		return response.ValidationError(c, map[string]string{
			"name": "name is required",
		})
	}

	userID := c.Locals("user_id").(uint)
	list, err := CreateList(database.DB, orgID(c), body.Name, body.Description, userID)
	if err != nil {
		return response.InternalError(c, "Failed to create todo list")
	}
	return response.Created(c, list, "Todo list created successfully")
}

func ListListsHandler(c *fiber.Ctx) error {
	lists, err := ListLists(database.DB, orgID(c))
	if err != nil {
		return response.InternalError(c, "Failed to fetch todo lists")
	}
	return response.Success(c, lists, "Todo lists retrieved successfully")
}

func GetListHandler(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("listID")
	if err != nil {
		return response.BadRequest(c, "Invalid list ID", nil)
	}

	list, err := GetList(database.DB, orgID(c), uint(listID))
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, list, "Todo list retrieved successfully")
}

func UpdateListHandler(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("listID")
	if err != nil {
		return response.BadRequest(c, "Invalid list ID", nil)
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	list, err := UpdateList(database.DB, orgID(c), uint(listID), body.Name, body.Description)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, list, "Todo list updated successfully")
}

func DeleteListHandler(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("listID")
	if err != nil {
		return response.BadRequest(c, "Invalid list ID", nil)
	}

	if err := DeleteList(database.DB, orgID(c), uint(listID)); err != nil {
		return domainError(c, err)
	}
	return response.NoContent(c)
}

func CreateItemHandler(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("listID")
	if err != nil {
		return response.BadRequest(c, "Invalid list ID", nil)
	}

	var body struct {
		Title   string     `json:"title"`
		Notes   string     `json:"notes"`
		DueDate *time.Time `json:"due_date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Title == "" {
		return response.ValidationError(c, map[string]string{
			"title": "title is required",
		})
	}

	userID := c.Locals("user_id").(uint)
	item, err := CreateItem(database.DB, orgID(c), uint(listID), body.Title, body.Notes, body.DueDate, userID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Created(c, item, "Todo item created successfully")
}

func UpdateItemHandler(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return response.BadRequest(c, "Invalid item ID", nil)
	}

	var body struct {
		Title   string     `json:"title"`
		Notes   string     `json:"notes"`
		DueDate *time.Time `json:"due_date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	item, err := UpdateItem(database.DB, orgID(c), uint(itemID), body.Title, body.Notes, body.DueDate)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, item, "Todo item updated successfully")
}

func CompleteItemHandler(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return response.BadRequest(c, "Invalid item ID", nil)
	}

	userID := c.Locals("user_id").(uint)
	item, err := CompleteItem(database.DB, orgID(c), uint(itemID), userID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, item, "Todo item completed")
}

func DeleteItemHandler(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return response.BadRequest(c, "Invalid item ID", nil)
	}

	if err := DeleteItem(database.DB, orgID(c), uint(itemID)); err != nil {
		return domainError(c, err)
	}
	return response.NoContent(c)
}

func UploadAttachmentHandler(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemID")
	if err != nil {
		return response.BadRequest(c, "Invalid item ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "No file uploaded", nil)
	}

	url, err := utils.UploadFile(file)
	if err != nil {
		return response.InternalError(c, "Failed to store attachment")
	}

	item, err := SetItemAttachment(database.DB, orgID(c), uint(itemID), url)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, item, "Attachment uploaded successfully")
}
