package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"golang.org/x/sync/errgroup"
)

// Generator is the slice of the AI layer the pipelines need.
type Generator interface {
	GenerateText(ctx context.Context, prompt string, bizCtx map[string]interface{}) (map[string]interface{}, error)
	GenerateImage(ctx context.Context, description, style string) (map[string]interface{}, error)
	CanGenerateImages() bool
}

// AssetSaver persists completed generation results. Optional.
type AssetSaver interface {
	SaveAsset(ctx context.Context, projectID, taskID string, kind domain.GenerationType, payload map[string]interface{}) error
}

// ImageStore mirrors generated images into object storage. Optional.
type ImageStore interface {
	Mirror(ctx context.Context, imageURL, key string) (string, error)
}

// UsageRecorder tracks per-project usage counters. Optional.
type UsageRecorder interface {
	RecordTask(ctx context.Context, projectID string, kind domain.GenerationType) error
	RecordOutcome(ctx context.Context, projectID string, status string) error
}

// ContentService accepts generation requests and runs the per-type pipelines
// in the background, moving tasks pending -> processing -> completed/failed.
type ContentService struct {
	tasks  *TaskService
	gen    Generator
	assets AssetSaver
	images ImageStore
	usage  UsageRecorder
}

func NewContentService(tasks *TaskService, gen Generator) *ContentService {
	return &ContentService{tasks: tasks, gen: gen}
}

// WithAssets enables result persistence.
func (s *ContentService) WithAssets(assets AssetSaver) *ContentService {
	s.assets = assets
	return s
}

// WithImageStore enables image mirroring.
func (s *ContentService) WithImageStore(images ImageStore) *ContentService {
	s.images = images
	return s
}

// WithUsage enables usage accounting.
func (s *ContentService) WithUsage(usage UsageRecorder) *ContentService {
	s.usage = usage
	return s
}

// GenerateBrandKit enqueues a brand kit generation and returns the pending task.
func (s *ContentService) GenerateBrandKit(ctx context.Context, req *domain.GenerationRequest) (*domain.Task, error) {
	if req.PromptString("business_name") == "" {
		return nil, domain.ErrMissingBusinessName
	}
	return s.start(ctx, req, domain.TypeBrandKit, s.processBrandKit)
}

// GenerateSocialMedia enqueues social media content generation.
func (s *ContentService) GenerateSocialMedia(ctx context.Context, req *domain.GenerationRequest) (*domain.Task, error) {
	if req.PromptString("business_name") == "" {
		return nil, domain.ErrMissingBusinessName
	}
	return s.start(ctx, req, domain.TypeSocialMedia, s.processSocialMedia)
}

// GenerateWebsiteContent enqueues website content generation.
func (s *ContentService) GenerateWebsiteContent(ctx context.Context, req *domain.GenerationRequest) (*domain.Task, error) {
	return s.start(ctx, req, domain.TypeWebsiteContent, s.processWebsiteContent)
}

// GenerateBusinessPlan enqueues business plan generation.
func (s *ContentService) GenerateBusinessPlan(ctx context.Context, req *domain.GenerationRequest) (*domain.Task, error) {
	return s.start(ctx, req, domain.TypeBusinessPlan, s.processBusinessPlan)
}

// GenerateImage enqueues a standalone image generation.
func (s *ContentService) GenerateImage(ctx context.Context, req *domain.GenerationRequest) (*domain.Task, error) {
	if req.PromptString("description") == "" {
		return nil, domain.ErrMissingDescription
	}
	return s.start(ctx, req, domain.TypeImageGeneration, s.processImage)
}

type pipelineFunc func(ctx context.Context, task *domain.Task, req *domain.GenerationRequest) (map[string]interface{}, error)

func (s *ContentService) start(ctx context.Context, req *domain.GenerationRequest, genType domain.GenerationType, run pipelineFunc) (*domain.Task, error) {
	task, err := s.tasks.CreateTask(ctx, req.ProjectID, genType)
	if err != nil {
		return nil, err
	}

	if s.usage != nil {
		if err := s.usage.RecordTask(ctx, req.ProjectID, genType); err != nil {
			NewLogger(ctx).LogWarnf("record_usage", "usage accounting failed: %v", err)
		}
	}

	go s.process(task, req, run)
	return task, nil
}

// process drives one pipeline to a terminal state. It runs detached from the
// originating request, so it owns its own context and deadline.
func (s *ContentService) process(task *domain.Task, req *domain.GenerationRequest, run pipelineFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), PipelineTimeout)
	defer cancel()

	logger := NewTaskLogger(task.TaskID)
	recordTaskStarted()

	if err := s.tasks.MarkProcessing(ctx, task.TaskID); err != nil {
		logger.LogError("mark_processing", err)
		return
	}

	result, err := run(ctx, task, req)
	if err != nil {
		logger.LogError(string(task.GenerationType), err)
		recordTaskFailed()
		s.finish(ctx, task, domain.StatusFailed, nil, err.Error())
		return
	}

	result["generated_at"] = time.Now().UTC().Format(time.RFC3339)
	recordTaskCompleted()
	s.finish(ctx, task, domain.StatusCompleted, result, "")

	if s.assets != nil {
		if err := s.assets.SaveAsset(ctx, task.ProjectID, task.TaskID, task.GenerationType, result); err != nil {
			// Persistence is best-effort; the task result already lives in Redis.
			logger.LogWarnf("save_asset", "asset persistence failed: %v", err)
		}
	}
}

func (s *ContentService) finish(ctx context.Context, task *domain.Task, status string, result map[string]interface{}, errMsg string) {
	logger := NewTaskLogger(task.TaskID)

	var err error
	if status == domain.StatusCompleted {
		err = s.tasks.Complete(ctx, task.TaskID, result)
	} else {
		err = s.tasks.Fail(ctx, task.TaskID, errMsg)
	}
	if err != nil {
		logger.LogError("finish_task", err)
	}

	if s.usage != nil {
		if err := s.usage.RecordOutcome(ctx, task.ProjectID, status); err != nil {
			logger.LogWarnf("record_usage", "usage accounting failed: %v", err)
		}
	}
}

func (s *ContentService) processBrandKit(ctx context.Context, task *domain.Task, req *domain.GenerationRequest) (map[string]interface{}, error) {
	logger := NewTaskLogger(task.TaskID)

	brandIdentity, err := s.gen.GenerateText(ctx, brandIdentityPrompt, req.Prompts)
	if err != nil {
		return nil, fmt.Errorf("brand identity: %w", err)
	}

	var logo map[string]interface{}
	if s.gen.CanGenerateImages() {
		logo = s.generateLogo(ctx, task, req, logger)
	}

	socialCtx := mergeMaps(req.Prompts, brandIdentity)
	socialContent, err := s.gen.GenerateText(ctx, brandSocialPrompt, socialCtx)
	if err != nil {
		return nil, fmt.Errorf("social content: %w", err)
	}

	return map[string]interface{}{
		"brand_identity": brandIdentity,
		"logo":           logo,
		"social_media":   socialContent,
	}, nil
}

// generateLogo is best-effort: a logo failure downgrades the brand kit, it
// does not fail it.
func (s *ContentService) generateLogo(ctx context.Context, task *domain.Task, req *domain.GenerationRequest, logger *Logger) map[string]interface{} {
	prompt := logoDescriptionPrompt(req.PromptString("business_name"), req.PromptString("industry"))
	desc, err := s.gen.GenerateText(ctx, prompt, req.Prompts)
	if err != nil {
		logger.LogWarnf("logo", "logo generation skipped: %v", err)
		return nil
	}

	description, _ := desc["content"].(string)
	if description == "" {
		description = prompt
	}

	style := req.PromptString("logo_style")
	if style == "" {
		style = "modern"
	}

	logo, err := s.gen.GenerateImage(ctx, description, style)
	if err != nil {
		logger.LogWarnf("logo", "logo generation skipped: %v", err)
		return nil
	}

	return s.mirrorImage(ctx, task, "logo", logo, logger)
}

func (s *ContentService) processSocialMedia(ctx context.Context, task *domain.Task, req *domain.GenerationRequest) (map[string]interface{}, error) {
	logger := NewTaskLogger(task.TaskID)
	businessName := req.PromptString("business_name")

	posts := make([]map[string]interface{}, len(socialPlatforms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(platformConcurrency)

	for i, platform := range socialPlatforms {
		g.Go(func() error {
			bizCtx := mergeMaps(req.Prompts, map[string]interface{}{"platform": platform})
			content, err := s.gen.GenerateText(gctx, platformPostsPrompt(platform, businessName), bizCtx)
			if err != nil {
				return fmt.Errorf("%s posts: %w", platform, err)
			}
			posts[i] = map[string]interface{}{
				"platform": platform,
				"content":  content,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	banners := []map[string]interface{}{}
	if s.gen.CanGenerateImages() {
		industry := req.PromptString("industry")
		for _, platform := range socialPlatforms {
			banner, err := s.gen.GenerateImage(ctx, platformBannerPrompt(platform, businessName, industry), "professional")
			if err != nil {
				logger.LogWarnf("banners", "banner generation skipped: %v", err)
				break
			}
			banner = s.mirrorImage(ctx, task, "banner-"+platform, banner, logger)
			banners = append(banners, map[string]interface{}{
				"platform": platform,
				"banner":   banner,
			})
		}
	}

	return map[string]interface{}{
		"posts":   posts,
		"banners": banners,
	}, nil
}

func (s *ContentService) processWebsiteContent(ctx context.Context, task *domain.Task, req *domain.GenerationRequest) (map[string]interface{}, error) {
	content := map[string]interface{}{}
	for _, section := range websiteSections {
		bizCtx := mergeMaps(req.Prompts, map[string]interface{}{"section": section})
		sectionContent, err := s.gen.GenerateText(ctx, websiteSectionPrompt(section), bizCtx)
		if err != nil {
			return nil, fmt.Errorf("%s section: %w", section, err)
		}
		content[section] = sectionContent
	}

	return map[string]interface{}{
		"website_content":      content,
		"template_suggestions": websiteTemplateSuggestions,
	}, nil
}

func (s *ContentService) processBusinessPlan(ctx context.Context, task *domain.Task, req *domain.GenerationRequest) (map[string]interface{}, error) {
	plan, err := s.gen.GenerateText(ctx, businessPlanPrompt, req.Prompts)
	if err != nil {
		return nil, fmt.Errorf("business plan: %w", err)
	}

	return map[string]interface{}{
		"business_plan": plan,
	}, nil
}

func (s *ContentService) processImage(ctx context.Context, task *domain.Task, req *domain.GenerationRequest) (map[string]interface{}, error) {
	logger := NewTaskLogger(task.TaskID)

	style := req.PromptString("style")
	if style == "" {
		style = "professional"
	}

	image, err := s.gen.GenerateImage(ctx, req.PromptString("description"), style)
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}

	return map[string]interface{}{
		"image": s.mirrorImage(ctx, task, "image", image, logger),
	}, nil
}

// mirrorImage copies a provider-hosted image into object storage when a store
// is configured, keeping the provider URL as source_url.
func (s *ContentService) mirrorImage(ctx context.Context, task *domain.Task, name string, image map[string]interface{}, logger *Logger) map[string]interface{} {
	if s.images == nil || image == nil {
		return image
	}

	srcURL, _ := image["image_url"].(string)
	if srcURL == "" {
		return image
	}

	key := fmt.Sprintf("%s/%s/%s.jpg", task.ProjectID, task.TaskID, name)
	stored, err := s.images.Mirror(ctx, srcURL, key)
	if err != nil {
		logger.LogWarnf("mirror_image", "image mirroring skipped: %v", err)
		return image
	}

	image["source_url"] = srcURL
	image["image_url"] = stored
	return image
}

func mergeMaps(base, overlay map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
