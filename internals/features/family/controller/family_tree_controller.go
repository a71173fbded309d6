// file: internals/features/family/controller/family_tree_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	familyModel "alshuail_backend/internals/features/family/model"
	memberModel "alshuail_backend/internals/features/members/model"
	helper "alshuail_backend/internals/helpers"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type FamilyHandler struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewFamilyHandler(db *gorm.DB) *FamilyHandler {
	return &FamilyHandler{DB: db, Validate: validator.New()}
}

// =======================================================
// BRANCHES
// =======================================================

type createBranchDTO struct {
	Name     string     `json:"name" validate:"required,min=2,max=150"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Notes    *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// POST /api/family/branches
func (h *FamilyHandler) CreateBranch(c *fiber.Ctx) error {
	var req createBranchDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.ParentID != nil {
		var parent familyModel.FamilyBranch
		if err := h.DB.First(&parent, "branch_id = ?", *req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.Error(c, fiber.StatusNotFound,
					"الفرع الأصل غير موجود", "Parent branch not found")
			}
			log.Printf("[ERROR] parent branch lookup failed: %v", err)
			return helper.ServerError(c)
		}
	}

	branch := familyModel.FamilyBranch{
		BranchName:     strings.TrimSpace(req.Name),
		BranchParentID: req.ParentID,
		BranchNotes:    req.Notes,
	}
	if err := h.DB.Create(&branch).Error; err != nil {
		log.Printf("[ERROR] branch create failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في إنشاء الفرع", "Failed to create branch")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated,
		"تم إنشاء الفرع بنجاح", "Branch created successfully", branch)
}

// GET /api/family/branches
func (h *FamilyHandler) ListBranches(c *fiber.Ctx) error {
	var branches []familyModel.FamilyBranch
	if err := h.DB.Order("branch_name ASC").Find(&branches).Error; err != nil {
		log.Printf("[ERROR] branches list failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب الفروع", "Failed to fetch branches")
	}

	// member counts per branch in one grouped query
	type branchCount struct {
		BranchID uuid.UUID `gorm:"column:member_family_branch_id"`
		Total    int64     `gorm:"column:total"`
	}
	var counts []branchCount
	if err := h.DB.Model(&memberModel.Member{}).
		Select("member_family_branch_id, COUNT(*) AS total").
		Where("member_family_branch_id IS NOT NULL").
		Group("member_family_branch_id").
		Scan(&counts).Error; err != nil {
		log.Printf("[WARN] branch member counts failed: %v", err)
	}
	countByID := make(map[uuid.UUID]int64, len(counts))
	for _, bc := range counts {
		countByID[bc.BranchID] = bc.Total
	}

	type branchView struct {
		familyModel.FamilyBranch
		MemberCount int64 `json:"member_count"`
	}
	out := make([]branchView, 0, len(branches))
	for _, b := range branches {
		out = append(out, branchView{FamilyBranch: b, MemberCount: countByID[b.BranchID]})
	}

	return helper.Success(c, "تم جلب الفروع", "Branches fetched", fiber.Map{
		"branches": out,
	})
}

// =======================================================
// DISPLAY TREE
// =======================================================

// TreeNode is one member in the rendered family tree.
type TreeNode struct {
	ID               uuid.UUID  `json:"id"`
	FullName         string     `json:"full_name"`
	MembershipNumber string     `json:"membership_number"`
	BranchID         *uuid.UUID `json:"branch_id,omitempty"`
	Children         []*TreeNode `json:"children"`
}

// GET /api/family/tree
//
// Builds the parent→children display tree. Members whose father is missing
// from the set (or who have none) become roots. A visited set guards against
// cyclic father links in imported data.
func (h *FamilyHandler) Tree(c *fiber.Ctx) error {
	q := h.DB.Model(&memberModel.Member{}).
		Where("member_status = ?", memberModel.MemberStatusActive)
	if branchID := strings.TrimSpace(c.Query("branch_id")); branchID != "" {
		id, err := uuid.Parse(branchID)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest,
				"معرف الفرع غير صالح", "Invalid branch ID")
		}
		q = q.Where("member_family_branch_id = ?", id)
	}

	var members []memberModel.Member
	if err := q.Order("member_created_at ASC").Find(&members).Error; err != nil {
		log.Printf("[ERROR] tree member fetch failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب شجرة العائلة", "Failed to fetch family tree")
	}

	roots := buildTree(members)
	return helper.Success(c, "تم جلب شجرة العائلة", "Family tree fetched", fiber.Map{
		"tree":          roots,
		"total_members": len(members),
	})
}

func buildTree(members []memberModel.Member) []*TreeNode {
	nodes := make(map[uuid.UUID]*TreeNode, len(members))
	for _, m := range members {
		nodes[m.MemberID] = &TreeNode{
			ID:               m.MemberID,
			FullName:         m.MemberFullName,
			MembershipNumber: m.MemberMembershipNumber,
			BranchID:         m.MemberFamilyBranchID,
			Children:         []*TreeNode{},
		}
	}

	var roots []*TreeNode
	for _, m := range members {
		node := nodes[m.MemberID]
		if m.MemberFatherID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*m.MemberFatherID]
		if !ok || *m.MemberFatherID == m.MemberID {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Father links in imported data can form cycles; a pure cycle yields no
	// root. Walk from the known roots with a visited set and promote the
	// first node of each unreachable cycle.
	reachable := make(map[uuid.UUID]bool, len(nodes))
	var mark func(n *TreeNode)
	mark = func(n *TreeNode) {
		if reachable[n.ID] {
			return
		}
		reachable[n.ID] = true
		for _, child := range n.Children {
			mark(child)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for _, m := range members {
		if !reachable[m.MemberID] {
			node := nodes[m.MemberID]
			detach(nodes, node)
			roots = append(roots, node)
			mark(node)
		}
	}

	return roots
}

// detach removes node from its current parent's children list.
func detach(nodes map[uuid.UUID]*TreeNode, node *TreeNode) {
	for _, candidate := range nodes {
		for i, child := range candidate.Children {
			if child == node {
				candidate.Children = append(candidate.Children[:i], candidate.Children[i+1:]...)
				return
			}
		}
	}
}
