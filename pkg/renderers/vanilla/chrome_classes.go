package vanilla

// ChromeClass is a typed identifier for the CSS classes the page chrome and
// field controls carry. Admin stylesheets and scripts key off these.
type ChromeClass string

const (
	ClassWrap         ChromeClass = "wrap"
	ClassNavWrapper   ChromeClass = "nav-tab-wrapper"
	ClassNavTab       ChromeClass = "nav-tab"
	ClassNavTabActive ChromeClass = "nav-tab-active"
	ClassFormTable    ChromeClass = "form-table"
	ClassDescription  ChromeClass = "description"
	ClassRegularText  ChromeClass = "regular-text"
	ClassColorField   ChromeClass = "optionspage-color-field"
	ClassUploadButton ChromeClass = "button optionspage-upload-button"
	ClassUploadImage  ChromeClass = "optionspage-upload-image"
	ClassPreviewImage ChromeClass = "optionspage-preview-image"
	ClassImageButton  ChromeClass = "optionspage-upload-image-button button"
	ClassClearImage   ChromeClass = "optionspage-clear-image-button"
	ClassDefaultImage ChromeClass = "optionspage-default-image"
	ClassGallery      ChromeClass = "optionspage-gallery-container"
	ClassGalleryList  ChromeClass = "optionspage-gallery-images"
	ClassGalleryField ChromeClass = "optionspage-gallery-field"
	ClassGalleryAdd   ChromeClass = "optionspage-gallery-add hide-if-no-js"
	ClassEditorWrap   ChromeClass = "optionspage-editor-wrap"
)

// DefaultPlaceholderImage is shown by image fields without an attachment.
const DefaultPlaceholderImage = "/assets/optionspage/placeholder.png"
