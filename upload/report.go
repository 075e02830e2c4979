package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/diluv/diluv-upload/entities"
)

const (
	CycloneDxXml  = "cyclonedx/xml"
	CycloneDxJson = "cyclonedx/json"
)

// WriteReport prints the upload result as indented JSON, or as a CycloneDX BOM when format is
// one of the CycloneDX formats.
func WriteReport(writer io.Writer, uploadInfo *entities.UploadInfo, request *entities.UploadRequest, format string) error {
	switch format {
	case CycloneDxXml:
		encoder := cdx.NewBOMEncoder(writer, cdx.BOMFileFormatXML)
		encoder.SetPretty(true)
		return encoder.Encode(ToCycloneDxBom(uploadInfo, request))
	case CycloneDxJson:
		encoder := cdx.NewBOMEncoder(writer, cdx.BOMFileFormatJSON)
		encoder.SetPretty(true)
		return encoder.Encode(ToCycloneDxBom(uploadInfo, request))
	case "":
		b, err := json.Marshal(uploadInfo)
		if err != nil {
			return err
		}
		var content bytes.Buffer
		if err = json.Indent(&content, b, "", "  "); err != nil {
			return err
		}
		_, err = fmt.Fprintln(writer, content.String())
		return err
	default:
		return fmt.Errorf("'%s' is not a valid report format", format)
	}
}

// ToCycloneDxBom describes the uploaded file as the BOM subject and its related projects as
// components.
func ToCycloneDxBom(uploadInfo *entities.UploadInfo, request *entities.UploadRequest) *cdx.BOM {
	fileRef := "diluv:file:" + strconv.FormatInt(uploadInfo.Id, 10)
	file := &cdx.Component{
		BOMRef:  fileRef,
		Type:    cdx.ComponentTypeFile,
		Name:    uploadInfo.Name,
		Version: request.Version,
	}
	if uploadInfo.Sha512 != "" {
		file.Hashes = &[]cdx.Hash{{Algorithm: cdx.HashAlgoSHA512, Value: uploadInfo.Sha512}}
	}
	fileProperties := []cdx.Property{
		{Name: "diluv:releaseType", Value: request.ReleaseType},
		{Name: "diluv:classifier", Value: request.Classifier},
		{Name: "diluv:gameVersions", Value: strings.Join(request.GameVersions.ToSlice(), ",")},
	}
	if loaders := request.Loaders.ToSlice(); len(loaders) > 0 {
		fileProperties = append(fileProperties, cdx.Property{Name: "diluv:loaders", Value: strings.Join(loaders, ",")})
	}
	if uploadInfo.DownloadURL != "" {
		file.ExternalReferences = &[]cdx.ExternalReference{{Type: cdx.ERTypeDistribution, URL: uploadInfo.DownloadURL}}
	}
	file.Properties = &fileProperties

	var components []cdx.Component
	var dependsOn []string
	for _, relation := range request.Dependencies {
		ref := "diluv:project:" + strconv.FormatInt(relation.ProjectId, 10)
		components = append(components, cdx.Component{
			BOMRef:     ref,
			Type:       cdx.ComponentTypeLibrary,
			Name:       strconv.FormatInt(relation.ProjectId, 10),
			Properties: &[]cdx.Property{{Name: "diluv:relation", Value: string(relation.Type)}},
		})
		// An incompatibility is not something the file depends on.
		if relation.Type != entities.Incompatible {
			dependsOn = append(dependsOn, ref)
		}
	}

	bom := cdx.NewBOM()
	bom.Metadata = &cdx.Metadata{Component: file}
	bom.Components = &components
	bom.Dependencies = &[]cdx.Dependency{{Ref: fileRef, Dependencies: &dependsOn}}
	return bom
}
